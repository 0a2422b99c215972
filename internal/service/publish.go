package service

import "strings"

// ResultPublisher turns a finished game's result token into the stable link
// shown in the group chat when the results are revealed. The web view serving
// that link lives outside this service.
type ResultPublisher interface {
	ResultLink(token string) string
}

// LinkPublisher builds result links below a fixed public base URL.
type LinkPublisher struct {
	BaseURL string
}

func (p LinkPublisher) ResultLink(token string) string {
	return strings.TrimRight(p.BaseURL, "/") + "/game/" + token
}
