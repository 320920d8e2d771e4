package instagram

// Responses of the Graph API hashtag endpoints, trimmed to the fields the
// harvester requests.

type hashtagSearchResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

type mediaItem struct {
	ID        string `json:"id"`
	Caption   string `json:"caption"`
	MediaType string `json:"media_type"` // IMAGE, VIDEO, CAROUSEL_ALBUM
	MediaURL  string `json:"media_url"`
	Permalink string `json:"permalink"`
	Username  string `json:"username"`
	Timestamp string `json:"timestamp"`
}

type recentMediaResponse struct {
	Data   []mediaItem `json:"data"`
	Paging struct {
		Next    string `json:"next"`
		Cursors struct {
			After string `json:"after"`
		} `json:"cursors"`
	} `json:"paging"`
}
