package transport

import "github.com/dukerupert/postmark-transport/internal/postmark"

// SendResult is the outcome of one provider call. Accepted and Rejected
// partition OriginalResults by ErrorCode, each keeping response order.
type SendResult struct {
	MessageID       string            `json:"messageId,omitempty"`
	Accepted        []postmark.Result `json:"accepted"`
	Rejected        []postmark.Result `json:"rejected"`
	OriginalResults []postmark.Result `json:"originalResults"`
}

func partition(results []postmark.Result) *SendResult {
	res := &SendResult{
		Accepted:        []postmark.Result{},
		Rejected:        []postmark.Result{},
		OriginalResults: results,
	}
	if res.OriginalResults == nil {
		res.OriginalResults = []postmark.Result{}
	}

	for _, r := range results {
		if r.ErrorCode == 0 {
			res.Accepted = append(res.Accepted, r)
		} else {
			res.Rejected = append(res.Rejected, r)
		}
	}

	if len(results) > 0 {
		res.MessageID = results[0].MessageID
	}
	return res
}
