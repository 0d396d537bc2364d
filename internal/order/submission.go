// Package order validates and submits the delivery form. Validation is
// declarative: every field's rules are evaluated together and all
// violations are reported at once, so the user sees the whole picture
// instead of fixing one field per attempt.
package order

import (
	"context"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"github.com/ashendes/storefront-client/internal/api"
	"github.com/ashendes/storefront-client/internal/cart"
	"github.com/ashendes/storefront-client/internal/metrics"
	"github.com/ashendes/storefront-client/internal/models"
)

var (
	// looseEmail deliberately accepts anything shaped local@domain;
	// "foo@bar" passes. Stricter address validation is the server's call.
	looseEmail = regexp.MustCompile(`^\S+@\S+$`)
	digitsOnly = regexp.MustCompile(`^\d+$`)
)

// Violation is one field-level rule failure, rendered next to the
// offending input.
type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Submission owns the delivery form lifecycle: the held form values, the
// declarative rule set, and the submit call. On success the form is
// cleared and the cart refreshed; on submission failure the form keeps its
// values and the error is only logged.
type Submission struct {
	mu   sync.RWMutex
	form models.OrderForm

	validate *validator.Validate
	client   *api.Client
	cart     *cart.Store
}

func NewSubmission(client *api.Client, cartStore *cart.Store) *Submission {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Returning true for empty values leaves absence to the required rule,
	// so each violation names exactly one failed rule.
	if err := v.RegisterValidation("loose_email", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || looseEmail.MatchString(value)
	}); err != nil {
		log.Fatal("Failed to register loose_email rule: ", err)
	}
	if err := v.RegisterValidation("digits_only", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || digitsOnly.MatchString(value)
	}); err != nil {
		log.Fatal("Failed to register digits_only rule: ", err)
	}

	return &Submission{
		validate: v,
		client:   client,
		cart:     cartStore,
	}
}

// Validate evaluates every field rule against the form and collects all
// violations; it never fails fast on the first one.
func (s *Submission) Validate(form models.OrderForm) []Violation {
	err := s.validate.Struct(form)
	if err == nil {
		return nil
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		log.Error("Order form validation broke: ", err)
		return []Violation{{Field: "form", Rule: "invalid", Message: "form could not be validated"}}
	}

	violations := make([]Violation, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		violations = append(violations, Violation{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: violationMessage(fe),
		})
	}
	return violations
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "loose_email":
		return "email must look like local@domain"
	case "digits_only":
		return "tel may contain digits only"
	case "min":
		return "tel must be at least " + fe.Param() + " digits"
	default:
		return fe.Field() + " is invalid"
	}
}

// Submit validates the form and, if clean, places the order. Violations
// block submission entirely; nothing partial ever reaches the network.
// Success clears the form and triggers a cart refresh (an order affects
// the cart server-side); failure keeps the entered values.
func (s *Submission) Submit(ctx context.Context, form models.OrderForm) ([]Violation, error) {
	s.mu.Lock()
	s.form = form
	s.mu.Unlock()

	if violations := s.Validate(form); len(violations) > 0 {
		metrics.OrdersSubmittedTotal.WithLabelValues(metrics.OutcomeValidationFailed).Inc()
		return violations, nil
	}

	if err := s.client.PlaceOrder(ctx, form); err != nil {
		metrics.OrdersSubmittedTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		// Logged only, not surfaced to the user.
		log.Error("Failed to place order: ", err)
		return nil, err
	}

	s.mu.Lock()
	s.form = models.OrderForm{}
	s.mu.Unlock()

	metrics.OrdersSubmittedTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	log.Info("Order placed")

	if err := s.cart.Refresh(ctx); err != nil {
		log.Error("Cart refresh after order failed: ", err)
	}
	return nil, nil
}

// Form returns the currently held form values.
func (s *Submission) Form() models.OrderForm {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.form
}
