package dto

// UploadURLRequest asks the server to fetch and store a single web page.
type UploadURLRequest struct {
	URL   string `json:"url" binding:"required,url"`
	Title string `json:"title"`
}

// GenerateQuestionsRequest starts a new question session for a material.
type GenerateQuestionsRequest struct {
	MaterialID   string `json:"material_id" binding:"required"`
	Level        string `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	Persona      string `json:"persona"`
	NumQuestions int    `json:"num_questions" binding:"omitempty,min=1,max=20"`
}

type SubmitAnswerRequest struct {
	SessionID  string `json:"session_id" binding:"required"`
	QuestionID string `json:"question_id" binding:"required"`
	AnswerText string `json:"answer_text" binding:"required"`
}
