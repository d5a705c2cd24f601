package dto

type PresenceResponse struct {
	Online []string `json:"online"`
}
