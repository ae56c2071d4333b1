package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeedbackReceiptBody(t *testing.T) {
	body := FeedbackReceiptBody("<alice>", "功能建议")
	assert.Contains(t, body, "&lt;alice&gt;")
	assert.Contains(t, body, "功能建议")

	assert.Contains(t, FeedbackReceiptBody("", "其他"), "用户")
}
