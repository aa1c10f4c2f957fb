package action

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/fieldkit/internal/logging"
	"github.com/muurk/fieldkit/internal/overlay"
	"github.com/muurk/fieldkit/internal/validation"
)

// DefaultToastDuration is how long failure toasts stay up.
const DefaultToastDuration = 5 * time.Second

// ToastClass marks toasts raised by the controller.
const ToastClass = "validation"

// Messages are the user-facing strings of the controller.
type Messages struct {
	Sending             string `yaml:"sending" toml:"sending"`
	Timeout             string `yaml:"timeout" toml:"timeout"`
	NotFound            string `yaml:"not_found" toml:"not_found"`
	Forbidden           string `yaml:"forbidden" toml:"forbidden"`
	BadRequest          string `yaml:"bad_request" toml:"bad_request"`
	InternalServerError string `yaml:"internal_server_error" toml:"internal_server_error"`
}

// DefaultMessages returns the English strings.
func DefaultMessages() Messages {
	return Messages{
		Sending:             "Sending...",
		Timeout:             "The server took too long to respond, please try again",
		NotFound:            "We could not find what you are looking for",
		Forbidden:           "You do not have permission to continue",
		BadRequest:          "Please correct the highlighted fields",
		InternalServerError: "Oops! Internal server error",
	}
}

// Merge returns m with every non-empty field of o applied over it.
func (m Messages) Merge(o Messages) Messages {
	pick := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	pick(&m.Sending, o.Sending)
	pick(&m.Timeout, o.Timeout)
	pick(&m.NotFound, o.NotFound)
	pick(&m.Forbidden, o.Forbidden)
	pick(&m.BadRequest, o.BadRequest)
	pick(&m.InternalServerError, o.InternalServerError)
	return m
}

// Options configure one action or submit. Zero fields inherit from the
// controller defaults.
type Options struct {
	ToastPosition overlay.Position
	ToastDuration time.Duration
	// ShowLoading is a pointer so a call can turn the indicator off.
	ShowLoading *bool
	Messages    Messages
}

// Bool returns a pointer to b, for Options.ShowLoading.
func Bool(b bool) *bool { return &b }

// DefaultOptions are the library defaults.
func DefaultOptions() Options {
	return Options{
		ToastPosition: overlay.Bottom,
		ToastDuration: DefaultToastDuration,
		ShowLoading:   Bool(true),
		Messages:      DefaultMessages(),
	}
}

// Merge returns base with the set fields of o applied over it. Messages
// merge field by field.
func Merge(base, o Options) Options {
	if o.ToastPosition != "" {
		base.ToastPosition = o.ToastPosition
	}
	if o.ToastDuration > 0 {
		base.ToastDuration = o.ToastDuration
	}
	if o.ShowLoading != nil {
		base.ShowLoading = Bool(*o.ShowLoading)
	}
	base.Messages = base.Messages.Merge(o.Messages)
	return base
}

// Action is the user work run by the controller.
type Action func(ctx context.Context) error

// Controller runs actions with a busy indicator and turns their failures
// into toasts and field messages.
type Controller struct {
	Overlays   overlay.Service
	Toasts     overlay.ToastService
	Validation *validation.Controller
	Defaults   Options
	Logger     *zap.Logger
}

// New returns a controller drawing on the given services.
func New(overlays overlay.Service, toasts overlay.ToastService) *Controller {
	return &Controller{
		Overlays:   overlays,
		Toasts:     toasts,
		Validation: validation.NewController(),
		Defaults:   DefaultOptions(),
	}
}

func (c *Controller) options(opts []Options) Options {
	o := Merge(DefaultOptions(), c.Defaults)
	for _, extra := range opts {
		o = Merge(o, extra)
	}
	return o
}

func (c *Controller) validator() *validation.Controller {
	if c.Validation != nil {
		return c.Validation
	}
	return validation.NewController()
}

func (c *Controller) logger() *zap.Logger {
	return logging.OrDefault(c.Logger, "action")
}

// Validate clears custom messages and reports the form.
func (c *Controller) Validate(f validation.Form) bool {
	v := c.validator()
	v.ClearCustomValidity(f)
	return v.ReportValidity(f)
}

// ProcessAction runs act with a busy indicator and reports whether it
// succeeded. A 400 failure toasts the first server message, others toast
// the message for their status. Returned errors never escape; a panic in
// act propagates after the indicator is dismissed.
func (c *Controller) ProcessAction(ctx context.Context, act Action, opts ...Options) bool {
	if act == nil {
		return true
	}
	o := c.options(opts)
	err := c.run(ctx, o, act)
	status := StatusOf(err)
	logging.LogSubmit(c.logger(), "action", err == nil, status, err)
	if err == nil {
		return true
	}

	if status == 400 {
		if errs, ok := c.serverErrors(err); ok {
			msg := o.Messages.BadRequest
			if fe, found := errs.First(); found {
				msg = validation.Prefix(fe.Field, fe.Messages[0])
			}
			c.toast(o, msg)
			return false
		}
	}
	c.toast(o, ToastMessage(err, o.Messages))
	return false
}

// ProcessSubmit validates f and, when it passes, runs act like
// ProcessAction. A 400 failure with a server payload marks the fields it
// names. It returns true only when validation passed and act succeeded.
func (c *Controller) ProcessSubmit(ctx context.Context, f validation.Form, act Action, opts ...Options) bool {
	o := c.options(opts)
	v := c.validator()

	if !c.Validate(f) {
		logging.LogSubmit(c.logger(), "submit", false, 0, errors.New("local validation failed"))
		c.toast(o, o.Messages.BadRequest)
		return false
	}
	if act == nil {
		return true
	}

	err := c.run(ctx, o, act)
	status := StatusOf(err)
	logging.LogSubmit(c.logger(), "submit", err == nil, status, err)
	if err != nil {
		if status == 400 {
			if errs, ok := c.serverErrors(err); ok {
				v.ClearCustomValidity(f)
				v.SetCustomValidity(f, errs.Map())
				v.ReportValidity(f)
			}
		}
		c.toast(o, ToastMessage(err, o.Messages))
		return false
	}

	v.ReportValidity(f)
	return true
}

// run executes act between presenting and dismissing the indicator.
func (c *Controller) run(ctx context.Context, o Options, act Action) error {
	if o.ShowLoading != nil && *o.ShowLoading && c.Overlays != nil {
		h, err := c.Overlays.Create(overlay.Config{Kind: overlay.KindLoading, Message: o.Messages.Sending, Backdrop: true})
		if err != nil {
			c.logger().Warn("Failed to create loading indicator", zap.Error(err))
		} else {
			if err := h.Present(); err != nil {
				c.logger().Warn("Failed to present loading indicator", zap.Error(err))
			}
			defer func() { _ = h.Dismiss() }()
		}
	}
	return act(ctx)
}

func (c *Controller) serverErrors(err error) (ServerErrors, bool) {
	var b JSONBodier
	if !errors.As(err, &b) {
		return nil, false
	}
	body, jerr := b.JSON()
	if jerr != nil {
		c.logger().Debug("Error body unreadable", zap.Error(jerr))
		return nil, false
	}
	errs, perr := ParseServerErrors(body)
	if perr != nil {
		c.logger().Debug("Error body is not a validation payload", zap.Error(perr))
		return nil, false
	}
	return errs, true
}

func (c *Controller) toast(o Options, msg string) {
	if c.Toasts == nil || msg == "" {
		return
	}
	t, err := c.Toasts.CreateToast(overlay.ToastConfig{
		Message:  msg,
		Duration: o.ToastDuration,
		Position: o.ToastPosition,
		Class:    ToastClass,
	})
	if err != nil {
		c.logger().Warn("Failed to create toast", zap.Error(err))
		return
	}
	if err := t.Present(); err != nil {
		c.logger().Warn("Failed to present toast", zap.Error(err))
	}
}
