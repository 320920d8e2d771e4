package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Yoshiken-lab/Photocon-sub001/internal/config"
	"github.com/Yoshiken-lab/Photocon-sub001/internal/domain"
)

const (
	baseURL = "https://graph.facebook.com/v19.0"

	// recent_media returns up to 50 items per page; cap paging so a viral
	// hashtag cannot turn one collection run into an unbounded crawl.
	pageSize = 50
	maxPages = 5

	mediaFields = "id,caption,media_type,media_url,permalink,timestamp,username"
)

// Graph API timestamps come back as "2024-05-01T09:30:00+0000".
const graphTimeLayout = "2006-01-02T15:04:05-0700"

// Client implements ports.MediaHarvester against the Instagram Graph API
// hashtag endpoints.
type Client struct {
	httpClient     *http.Client
	accessToken    string
	businessUserID string
}

// NewClient creates a harvester client from configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient:     &http.Client{Timeout: 15 * time.Second},
		accessToken:    cfg.InstagramAccessToken,
		businessUserID: cfg.InstagramBusinessUserID,
	}
}

// FetchRecentMediaByHashtag resolves the hashtag id and pages through its
// recent media, mapping each item into the domain model.
func (c *Client) FetchRecentMediaByHashtag(ctx context.Context, hashtag string) ([]domain.HarvestedMedia, error) {
	hashtagID, err := c.lookupHashtagID(ctx, hashtag)
	if err != nil {
		return nil, fmt.Errorf("resolving hashtag %q: %w", hashtag, err)
	}

	var items []domain.HarvestedMedia
	after := ""
	for page := 0; page < maxPages; page++ {
		resp, err := c.fetchRecentMediaPage(ctx, hashtagID, after)
		if err != nil {
			return nil, fmt.Errorf("fetching recent media for hashtag %q: %w", hashtag, err)
		}
		for i := range resp.Data {
			items = append(items, mapMediaItem(&resp.Data[i]))
		}
		if resp.Paging.Next == "" || resp.Paging.Cursors.After == "" {
			break
		}
		after = resp.Paging.Cursors.After
	}
	return items, nil
}

// lookupHashtagID resolves a hashtag name to its Graph API node id.
func (c *Client) lookupHashtagID(ctx context.Context, hashtag string) (string, error) {
	params := url.Values{}
	params.Add("user_id", c.businessUserID)
	params.Add("q", hashtag)

	endpoint := fmt.Sprintf("%s/ig_hashtag_search?%s", baseURL, params.Encode())

	var result hashtagSearchResponse
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return "", err
	}
	if len(result.Data) == 0 {
		return "", fmt.Errorf("hashtag %q not found", hashtag)
	}
	return result.Data[0].ID, nil
}

func (c *Client) fetchRecentMediaPage(ctx context.Context, hashtagID, after string) (*recentMediaResponse, error) {
	params := url.Values{}
	params.Add("user_id", c.businessUserID)
	params.Add("fields", mediaFields)
	params.Add("limit", fmt.Sprintf("%d", pageSize))
	if after != "" {
		params.Add("after", after)
	}

	endpoint := fmt.Sprintf("%s/%s/recent_media?%s", baseURL, hashtagID, params.Encode())

	var result recentMediaResponse
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// getJSON performs an authenticated GET and decodes the JSON body. Non-200
// responses surface the body text so operators see the Graph API error.
func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("graph API returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding graph API response: %w", err)
	}
	return nil
}

func mapMediaItem(item *mediaItem) domain.HarvestedMedia {
	mediaType := domain.MediaImage
	if strings.EqualFold(item.MediaType, "VIDEO") {
		mediaType = domain.MediaVideo
	}

	ts, err := time.Parse(graphTimeLayout, item.Timestamp)
	if err != nil {
		// some endpoints answer in RFC3339 instead
		ts, _ = time.Parse(time.RFC3339, item.Timestamp)
	}

	return domain.HarvestedMedia{
		MediaID:   item.ID,
		Caption:   item.Caption,
		MediaType: mediaType,
		MediaURL:  item.MediaURL,
		Permalink: item.Permalink,
		Username:  item.Username,
		Timestamp: ts,
	}
}
