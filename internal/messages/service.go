package messages

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/b2b-quotes/internal/quotes"
	pkgerrors "github.com/angelmondragon/b2b-quotes/pkg/errors"
	"github.com/angelmondragon/b2b-quotes/pkg/logger"
	"github.com/angelmondragon/b2b-quotes/pkg/mail"
	"github.com/angelmondragon/b2b-quotes/pkg/metrics"
	"github.com/angelmondragon/b2b-quotes/pkg/permissions"
)

const (
	// TemplateQuoteCreated is the mail template used for new quotes.
	TemplateQuoteCreated = "quote-created"
	// TemplateQuoteUpdated is the default mail template for quote updates.
	TemplateQuoteUpdated = "quote-updated"
	// DefaultSalesAdminRole is the role whose users hear about new quotes.
	DefaultSalesAdminRole = "sales-admin"

	logGetUsersError     = "quoteCreatedMessage-getUsersError"
	logDispatchError     = "sendMailNotificationToUsers-Error"
	logRecipientError    = "sendMailNotification-recipientError"
	logRecipientSent     = "sendMailNotification-recipientSent"
	logAbandoned         = "quote notification abandoned"
	logNotificationsSent = "quote notification sent"
)

// Abandon reasons.
const (
	ReasonNoRecipients = "no-recipients"
	ReasonMissingNames = "missing-names"
)

// OutcomeKind classifies a notification attempt.
type OutcomeKind string

const (
	OutcomeSent      OutcomeKind = "sent"
	OutcomeAbandoned OutcomeKind = "abandoned"
	OutcomeFailed    OutcomeKind = "failed"
)

// Outcome reports what a notification attempt did. Sent counts the sends
// issued and Delivered those the mail service accepted. Err is the dispatch
// failure for OutcomeFailed; for OutcomeSent it combines any per-recipient
// failures and may be nil.
type Outcome struct {
	Kind      OutcomeKind
	Sent      int
	Delivered int
	Reason    string
	Err       error
}

// QuoteUpdate is the latest history entry carried into the mail template.
type QuoteUpdate struct {
	Email  string `json:"email"`
	Status string `json:"status"`
	Note   string `json:"note"`
}

// CreatedEvent announces a new quote. Recipients are derived from the
// sales-admin role of the organization.
type CreatedEvent struct {
	Name         string      `json:"name" validate:"required"`
	ID           string      `json:"id" validate:"required"`
	Organization string      `json:"organization" validate:"required"`
	CostCenter   string      `json:"costCenter" validate:"required"`
	LastUpdate   QuoteUpdate `json:"lastUpdate"`
	// RootPath overrides the configured storefront root path when set.
	RootPath string `json:"-"`
}

// UpdatedEvent announces a quote change to an explicit recipient list.
type UpdatedEvent struct {
	Users        []string    `json:"users" validate:"dive,required,email"`
	Name         string      `json:"name" validate:"required"`
	ID           string      `json:"id" validate:"required"`
	Organization string      `json:"organization" validate:"required"`
	CostCenter   string      `json:"costCenter" validate:"required"`
	LastUpdate   QuoteUpdate `json:"lastUpdate"`
	TemplateName string      `json:"templateName,omitempty"`
	OrderID      string      `json:"orderId,omitempty"`
	RootPath     string      `json:"-"`
}

// QuotePayload is the resolved quote view rendered by the mail templates.
type QuotePayload struct {
	CostCenter   string      `json:"costCenter"`
	ID           string      `json:"id"`
	LastUpdate   QuoteUpdate `json:"lastUpdate"`
	Link         string      `json:"link"`
	Name         string      `json:"name"`
	OrderID      *string     `json:"orderId,omitempty"`
	Organization string      `json:"organization"`
}

type mailRecipient struct {
	To string `json:"to"`
}

type mailData struct {
	Message mailRecipient `json:"message"`
	Quote   QuotePayload  `json:"quote"`
}

// RoleDirectory lists roles and role-scoped users.
type RoleDirectory interface {
	ListRoles(ctx context.Context) ([]permissions.Role, error)
	ListUsers(ctx context.Context, params permissions.ListUsersParams) ([]permissions.User, error)
}

// Resolver resolves both display names or neither.
type Resolver interface {
	Strict(ctx context.Context, orgID, costCenterID string) quotes.Names
}

// Mailer sends one templated mail.
type Mailer interface {
	SendMail(ctx context.Context, msg mail.Message) error
}

// SendRecorder observes each mail send.
type SendRecorder interface {
	RecordSend(rec metrics.SendRecord)
}

// ServiceParams wires the notification service.
type ServiceParams struct {
	Roles    RoleDirectory
	Resolver Resolver
	Mailer   Mailer
	Metrics  SendRecorder
	Logger   *logger.Logger

	Account        string
	Host           string
	RootPath       string
	SalesAdminRole string
	UsersPageSize  int
}

// Service fans quote lifecycle events out to mail recipients.
type Service struct {
	roles    RoleDirectory
	resolver Resolver
	mailer   Mailer
	metrics  SendRecorder
	logg     *logger.Logger

	account        string
	host           string
	rootPath       string
	salesAdminRole string
	usersPageSize  int
}

// NewService validates and wires the notification service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Roles == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "role directory required")
	}
	if params.Resolver == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "name resolver required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	if strings.TrimSpace(params.Host) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storefront host required")
	}
	role := params.SalesAdminRole
	if role == "" {
		role = DefaultSalesAdminRole
	}
	pageSize := params.UsersPageSize
	if pageSize < 1 {
		pageSize = permissions.DefaultPageSize
	}
	return &Service{
		roles:          params.Roles,
		resolver:       params.Resolver,
		mailer:         params.Mailer,
		metrics:        params.Metrics,
		logg:           params.Logger,
		account:        params.Account,
		host:           params.Host,
		rootPath:       params.RootPath,
		salesAdminRole: role,
		usersPageSize:  pageSize,
	}, nil
}

// QuoteCreated notifies the organization's sales admins about a new quote.
// Only the first page of role users is notified.
func (s *Service) QuoteCreated(ctx context.Context, event CreatedEvent) Outcome {
	ctx = s.logg.WithQuoteID(ctx, event.ID)

	users, err := s.salesAdmins(ctx, event.Organization)
	if err != nil {
		s.logg.Error(ctx, logGetUsersError, err)
		users = nil
	}
	if len(users) == 0 {
		return s.abandon(ctx, ReasonNoRecipients)
	}

	names := s.resolver.Strict(ctx, event.Organization, event.CostCenter)
	if !names.Complete() {
		return s.abandon(ctx, ReasonMissingNames)
	}

	quote := QuotePayload{
		CostCenter:   *names.CostCenterName,
		ID:           event.ID,
		LastUpdate:   event.LastUpdate,
		Link:         BuildLink(s.host, s.pickRootPath(event.RootPath), event.ID),
		Name:         event.Name,
		Organization: *names.OrganizationName,
	}
	return s.dispatch(ctx, quote, users, TemplateQuoteCreated)
}

// QuoteUpdated notifies the given users about a quote change.
func (s *Service) QuoteUpdated(ctx context.Context, event UpdatedEvent) Outcome {
	ctx = s.logg.WithQuoteID(ctx, event.ID)

	names := s.resolver.Strict(ctx, event.Organization, event.CostCenter)
	if !names.Complete() {
		return s.abandon(ctx, ReasonMissingNames)
	}

	templateName := event.TemplateName
	if templateName == "" {
		templateName = TemplateQuoteUpdated
	}
	orderID := event.OrderID
	quote := QuotePayload{
		CostCenter:   *names.CostCenterName,
		ID:           event.ID,
		LastUpdate:   event.LastUpdate,
		Link:         BuildLink(s.host, s.pickRootPath(event.RootPath), event.ID),
		Name:         event.Name,
		OrderID:      &orderID,
		Organization: *names.OrganizationName,
	}
	return s.dispatch(ctx, quote, event.Users, templateName)
}

func (s *Service) salesAdmins(ctx context.Context, organizationID string) ([]string, error) {
	roles, err := s.roles.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	var roleID string
	for _, role := range roles {
		if role.Slug == s.salesAdminRole {
			roleID = role.ID
			break
		}
	}
	if roleID == "" {
		return nil, nil
	}

	users, err := s.roles.ListUsers(ctx, permissions.ListUsersParams{
		RoleID:         roleID,
		OrganizationID: organizationID,
		Page:           1,
		PageSize:       s.usersPageSize,
	})
	if err != nil {
		return nil, err
	}
	emails := make([]string, 0, len(users))
	for _, user := range users {
		if email := strings.TrimSpace(user.Email); email != "" {
			emails = append(emails, email)
		}
	}
	return emails, nil
}

// dispatch sends one mail per recipient concurrently. Recipient lists are
// bounded by the users page size so no cap applies.
func (s *Service) dispatch(ctx context.Context, quote QuotePayload, users []string, templateName string) Outcome {
	if err := s.checkDispatch(templateName); err != nil {
		s.logg.Error(ctx, logDispatchError, err)
		return Outcome{Kind: OutcomeFailed, Err: err}
	}

	var (
		g         errgroup.Group
		mu        sync.Mutex
		delivered int
		failures  error
	)
	for _, user := range users {
		g.Go(func() error {
			err := s.mailer.SendMail(ctx, mail.Message{
				TemplateName: templateName,
				JSONData:     mailData{Message: mailRecipient{To: user}, Quote: quote},
			})
			if s.metrics != nil {
				s.metrics.RecordSend(metrics.SendRecord{
					QuoteID:      quote.ID,
					Account:      s.account,
					Recipient:    user,
					TemplateName: templateName,
					Err:          err,
				})
			}

			// Per-send record: the metric labels leave quote and recipient out.
			status := metrics.StatusSent
			if err != nil {
				status = metrics.StatusFailed
			}
			logCtx := s.logg.WithFields(ctx, map[string]any{
				"quote_id":  quote.ID,
				"recipient": user,
				"account":   s.account,
				"template":  templateName,
				"status":    status,
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				multierr.AppendInto(&failures, fmt.Errorf("send to %s: %w", user, err))
				s.logg.Warn(s.logg.WithError(logCtx, err), logRecipientError)
				return nil
			}
			delivered++
			s.logg.Info(logCtx, logRecipientSent)
			return nil
		})
	}
	_ = g.Wait()

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"template":  templateName,
		"sent":      len(users),
		"delivered": delivered,
	}), logNotificationsSent)
	return Outcome{Kind: OutcomeSent, Sent: len(users), Delivered: delivered, Err: failures}
}

func (s *Service) checkDispatch(templateName string) error {
	if s.mailer == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "mail client not configured")
	}
	if strings.TrimSpace(templateName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "template name required")
	}
	return nil
}

func (s *Service) abandon(ctx context.Context, reason string) Outcome {
	s.logg.Warn(s.logg.WithField(ctx, "reason", reason), logAbandoned)
	return Outcome{Kind: OutcomeAbandoned, Reason: reason}
}

func (s *Service) pickRootPath(override string) string {
	if override != "" {
		return override
	}
	return s.rootPath
}

// NormalizeRootPath forces a leading slash and collapses "/" to "".
func NormalizeRootPath(rootPath string) string {
	if rootPath != "" && !strings.HasPrefix(rootPath, "/") {
		rootPath = "/" + rootPath
	}
	if rootPath == "/" {
		return ""
	}
	return rootPath
}

// BuildLink returns the storefront deep link for a quote.
func BuildLink(host, rootPath, id string) string {
	return fmt.Sprintf("https://%s%s/b2b-quotes/%s", host, NormalizeRootPath(rootPath), id)
}
