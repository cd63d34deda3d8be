package intent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyKeywords(t *testing.T) {
	c := NewClassifier()
	ctx := context.Background()

	tests := []struct {
		name          string
		query         string
		wantPortfolio bool
		wantFinancial bool
	}{
		{"plain company query", "삼성전자 최근 소식", false, false},
		{"financial keyword", "삼성전자 실적 알려줘", false, true},
		{"ratio keyword is case-insensitive", "삼성전자 PER 어때", false, true},
		{"portfolio keyword", "내 포트폴리오 점검해줘", true, false},
		{"holdings phrasing", "내가 보유한 종목 뉴스", true, false},
		{"both intents", "내 포트폴리오 종목들 재무제표 봐줘", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := c.Classify(ctx, tt.query)
			assert.Equal(t, tt.wantPortfolio, intent.Portfolio, "portfolio intent")
			assert.Equal(t, tt.wantFinancial, intent.Financial, "financial intent")
		})
	}
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"portfolio": true, "financial": false}`,
		extractJSON("Here you go:\n{\"portfolio\": true, \"financial\": false}\nDone."))
	assert.Equal(t, "no braces here", extractJSON("no braces here"))
}
