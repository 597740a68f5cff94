package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/techstore/internal/user/domain"
)

var tracer = otel.Tracer("user-repository")

// TracingRepository wraps a UserRepository with a span per call
type TracingRepository struct {
	next domain.UserRepository
}

var _ domain.UserRepository = (*TracingRepository)(nil)

// NewTracingRepository creates a new repository with tracing
func NewTracingRepository(next domain.UserRepository) *TracingRepository {
	return &TracingRepository{next: next}
}

func start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, "repository."+name, trace.WithAttributes(attrs...))
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (r *TracingRepository) Create(ctx context.Context, user *domain.User, roles ...string) (err error) {
	ctx, span := start(ctx, "Create", attribute.StringSlice("user.roles", roles))
	defer func() { finish(span, err) }()

	if err = r.next.Create(ctx, user, roles...); err == nil {
		span.SetAttributes(attribute.Int("user.id", int(user.ID)))
	}
	return err
}

func (r *TracingRepository) FindByID(ctx context.Context, id uint) (user *domain.User, err error) {
	ctx, span := start(ctx, "FindByID", attribute.Int("user.id", int(id)))
	defer func() { finish(span, err) }()
	return r.next.FindByID(ctx, id)
}

// FindByEmail leaves the address out of the span
func (r *TracingRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, span := start(ctx, "FindByEmail")
	defer span.End()

	user, err := r.next.FindByEmail(ctx, email)
	span.SetAttributes(attribute.Bool("user.found", err == nil))
	return user, err
}

func (r *TracingRepository) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	ctx, span := start(ctx, "FindByPhone")
	defer span.End()

	user, err := r.next.FindByPhone(ctx, phone)
	span.SetAttributes(attribute.Bool("user.found", err == nil))
	return user, err
}

func (r *TracingRepository) List(ctx context.Context) (users []domain.User, err error) {
	ctx, span := start(ctx, "List")
	defer func() { finish(span, err) }()

	users, err = r.next.List(ctx)
	span.SetAttributes(attribute.Int("result.count", len(users)))
	return users, err
}

func (r *TracingRepository) Update(ctx context.Context, user *domain.User) (err error) {
	ctx, span := start(ctx, "Update", attribute.Int("user.id", int(user.ID)))
	defer func() { finish(span, err) }()
	return r.next.Update(ctx, user)
}

func (r *TracingRepository) AddRole(ctx context.Context, userID uint, role string) (err error) {
	ctx, span := start(ctx, "AddRole", attribute.Int("user.id", int(userID)), attribute.String("role", role))
	defer func() { finish(span, err) }()
	return r.next.AddRole(ctx, userID, role)
}

func (r *TracingRepository) RemoveRole(ctx context.Context, userID uint, role string) (err error) {
	ctx, span := start(ctx, "RemoveRole", attribute.Int("user.id", int(userID)), attribute.String("role", role))
	defer func() { finish(span, err) }()
	return r.next.RemoveRole(ctx, userID, role)
}

func (r *TracingRepository) Delete(ctx context.Context, id uint) (err error) {
	ctx, span := start(ctx, "Delete", attribute.Int("user.id", int(id)))
	defer func() { finish(span, err) }()
	return r.next.Delete(ctx, id)
}

func (r *TracingRepository) Count(ctx context.Context) (count int64, err error) {
	ctx, span := start(ctx, "Count")
	defer func() { finish(span, err) }()
	return r.next.Count(ctx)
}

func (r *TracingRepository) CountByRole(ctx context.Context, role string) (count int64, err error) {
	ctx, span := start(ctx, "CountByRole", attribute.String("role", role))
	defer func() { finish(span, err) }()
	return r.next.CountByRole(ctx, role)
}
