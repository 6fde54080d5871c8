package videogen

import "strings"

// The provider has shipped several response vocabularies over time. Each
// lookup below is an ordered alias table evaluated first-match-wins, so
// contract drift stays isolated here and never touches control flow.

type extractor func(map[string]any) (string, bool)

var assetURLExtractors = []extractor{
	field("video_url"),
	field("url"),
	field("output_url"),
	nested("result", "video_url"),
	nested("output", "video_url"),
	nested("data", "video_url"),
}

var jobIDExtractors = []extractor{
	field("id"),
	field("job_id"),
	field("task_id"),
	field("request_id"),
	field("uuid"),
	nested("data", "id"),
}

var statusExtractors = []extractor{
	field("status"),
	field("state"),
	nested("data", "status"),
}

var failureReasonExtractors = []extractor{
	nested("error", "message"),
	field("error"),
	field("message"),
	field("failure_reason"),
	nested("data", "error"),
}

func extractAssetURL(body map[string]any) string {
	return firstMatch(body, assetURLExtractors)
}

func extractJobID(body map[string]any) string {
	return firstMatch(body, jobIDExtractors)
}

func extractStatus(body map[string]any) string {
	return strings.ToLower(firstMatch(body, statusExtractors))
}

func extractFailureReason(body map[string]any) string {
	return firstMatch(body, failureReasonExtractors)
}

func isInProgress(status string) bool {
	switch status {
	case "pending", "processing", "queued", "in_progress", "starting":
		return true
	}
	return false
}

func isCompleted(status string) bool {
	return status == "completed" || status == "succeeded"
}

func isFailed(status string) bool {
	return status == "failed" || status == "error"
}

func firstMatch(body map[string]any, extractors []extractor) string {
	for _, extract := range extractors {
		if v, ok := extract(body); ok {
			return v
		}
	}
	return ""
}

func field(name string) extractor {
	return func(body map[string]any) (string, bool) {
		return stringValue(body[name])
	}
}

func nested(outer, inner string) extractor {
	return func(body map[string]any) (string, bool) {
		child, ok := body[outer].(map[string]any)
		if !ok {
			return "", false
		}
		return stringValue(child[inner])
	}
}

func stringValue(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}
