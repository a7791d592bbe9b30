package model

import "time"

const (
	ApiTransformer = "huggingface"
	ApiDocument    = "huggingface-document"
	ApiJudge       = "judge"
)

type ApiUsage struct {
	ID           int64
	ApiName      string
	UsageDate    time.Time
	RequestCount int
	ErrorCount   int
	TokenCount   int
}
