package payloads

// CollectionRequestPayload asks the worker to run media collection.
// An empty ContestID means "all active contests".
type CollectionRequestPayload struct {
	ContestID string `json:"contest_id"`
}
