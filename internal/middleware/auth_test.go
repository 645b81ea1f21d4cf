package middleware

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

type stubAuth struct {
	authorized bool
	err        error
}

func (s stubAuth) IsAuthorized(int64) (bool, error) {
	return s.authorized, s.err
}

type fakeContext struct {
	tele.Context
	text      string
	callback  *tele.Callback
	sent      []string
	responded bool
}

func (f *fakeContext) Sender() *tele.User { return &tele.User{ID: 1} }
func (f *fakeContext) Text() string { return f.text }
func (f *fakeContext) Callback() *tele.Callback { return f.callback }

func (f *fakeContext) Send(what interface{}, _ ...interface{}) error {
	f.sent = append(f.sent, what.(string))
	return nil
}

func (f *fakeContext) Respond(...*tele.CallbackResponse) error {
	f.responded = true
	return nil
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name         string
		auth         stubAuth
		ctx          *fakeContext
		expectNext   bool
		expectSent   string
		expectAnswer bool
	}{
		{
			name:       "authorized command",
			auth:       stubAuth{authorized: true},
			ctx:        &fakeContext{text: "/review"},
			expectNext: true,
		},
		{
			name:       "unauthorized start",
			ctx:        &fakeContext{text: "/start"},
			expectNext: true,
		},
		{
			name:       "unauthorized password attempt",
			ctx:        &fakeContext{text: "hunter2"},
			expectNext: true,
		},
		{
			name:       "unauthorized command",
			ctx:        &fakeContext{text: "/review"},
			expectSent: msgPasswordPrompt,
		},
		{
			name:         "unauthorized button",
			ctx:          &fakeContext{callback: &tele.Callback{Data: "review"}},
			expectAnswer: true,
		},
		{
			name:       "storage error",
			auth:       stubAuth{err: errors.New("db down")},
			ctx:        &fakeContext{text: "hello"},
			expectSent: msgError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := func(tele.Context) error {
				called = true
				return nil
			}

			err := AuthMiddleware(tt.auth, zap.NewNop())(next)(tt.ctx)

			assert.NoError(t, err)
			assert.Equal(t, tt.expectNext, called)
			assert.Equal(t, tt.expectAnswer, tt.ctx.responded)
			if tt.expectSent != "" {
				assert.Equal(t, []string{tt.expectSent}, tt.ctx.sent)
			} else {
				assert.Empty(t, tt.ctx.sent)
			}
		})
	}
}
