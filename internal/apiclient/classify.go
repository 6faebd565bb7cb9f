package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/mithrel/freightdesk/internal/nav"
	"github.com/mithrel/freightdesk/internal/notify"
)

const networkErrorMessage = "Network Error"

// Outcome is the classifier's decision for one failed call.
type Outcome struct {
	Kind Kind
	// Payload is the body to hand to the success path (KindValidation only).
	Payload []byte
	// Err is set for KindAuthRequired and KindFailure.
	Err *Error
}

// Classify decides what a failed call means and performs its side effects.
// env is nil when sendErr reports that no response arrived. Each call pushes
// its own notification; nothing is deduplicated.
//
// 400 resolving as data is kept for compatibility with forms that render the
// server's {message} body; it is not a pattern to extend.
func (c *Client) Classify(req Request, env *Envelope, sendErr error) Outcome {
	e := &Error{Method: req.method(), URL: req.Path}

	if env == nil {
		e.Kind = KindFailure
		e.Err = sendErr
		e.Message = networkErrorMessage
		if sendErr != nil && sendErr.Error() != "" {
			e.Message = sendErr.Error()
		}
		if errors.Is(sendErr, context.Canceled) {
			// the caller walked away; nobody is waiting for a toast
			return Outcome{Kind: KindFailure, Err: e}
		}
		c.log.Warn("no response", zap.String("method", e.Method), zap.String("path", e.URL), zap.Error(sendErr))
		c.pushError(e.Message)
		return Outcome{Kind: KindFailure, Err: e}
	}

	e.URL = env.URL
	e.Status = env.Status
	e.Body = env.Body
	e.Message = serverMessage(env.Body)
	if e.Message == "" {
		e.Message = fmt.Sprintf("Request failed with status code %d", env.Status)
	}

	switch env.Status {
	case http.StatusUnauthorized:
		e.Kind = KindAuthRequired
		c.pushError(e.Message)
		href := c.redirectToOTP()
		c.log.Warn("session rejected", zap.String("path", req.Path), zap.String("redirect", href))
		return Outcome{Kind: KindAuthRequired, Err: e}
	case http.StatusBadRequest:
		c.log.Debug("validation response", zap.String("path", req.Path), zap.String("message", e.Message))
		return Outcome{Kind: KindValidation, Payload: env.Body}
	default:
		e.Kind = KindFailure
		c.log.Warn("request failed", zap.String("path", req.Path), zap.Int("status", env.Status), zap.String("message", e.Message))
		c.pushError(e.Message)
		return Outcome{Kind: KindFailure, Err: e}
	}
}

func (c *Client) pushError(message string) {
	if c.notifier == nil {
		return
	}
	c.notifier.Push(notify.Notification{Type: notify.TypeError, Title: "Error", Message: message})
}

// redirectToOTP sends the navigator to the OTP route. The origin is the
// current redirectTo parameter when one is already present, so repeated 401s
// do not nest redirects, otherwise the current path.
func (c *Client) redirectToOTP() string {
	if c.nav == nil {
		return ""
	}
	loc := c.nav.Location()
	origin := ""
	if loc != nil {
		origin = loc.Query().Get("redirectTo")
		if origin == "" {
			origin = loc.Path
		}
	}
	href := nav.Href(c.verifyOTP, origin)
	c.nav.Redirect(href)
	return href
}
