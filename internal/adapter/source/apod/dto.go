package apod

// ContentResponse is the JSON object returned by GET /v1/apod.
// Required fields are pointers so a missing key is distinguishable from "".
type ContentResponse struct {
	Date        *string `json:"date"`
	Title       *string `json:"title"`
	Explanation *string `json:"explanation"`
	URL         *string `json:"url"`
	MediaType   *string `json:"media_type"`
	HDURL       string  `json:"hdurl,omitempty"`
	Copyright   string  `json:"copyright,omitempty"`
}
