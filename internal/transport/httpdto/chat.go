package httpdto

type CreateChatRequest struct {
	Text string `json:"text" binding:"required"`
}

type CreateChatResponse struct {
	ChatID string `json:"chatId"`
}

// AppendTurnsRequest carries an optional user question (with optional
// image reference) and the model answer to push onto a chat's history.
type AppendTurnsRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer" binding:"required"`
	Img      string `json:"img"`
}
