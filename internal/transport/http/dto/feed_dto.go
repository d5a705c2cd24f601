package dto

type FeedResponse struct {
	Items []ProfileResponse `json:"items"`
}
