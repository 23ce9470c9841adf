// Package service orchestrates the referral use cases: conversion, link
// issuance, and referrer-scoped listing. Transport and storage concerns
// live in other layers.
package service

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"refgate/internal/deeplink"
	"refgate/internal/events"
	"refgate/internal/identity"
	"refgate/internal/referral/metrics"
	"refgate/internal/referral/store"
	"refgate/internal/referral/validation"
	dErrors "refgate/pkg/domain-errors"
)

// Service is the pipeline entry point. All collaborators arrive through
// the constructor; there are no package-level singletons, so tests build
// fully isolated instances.
type Service struct {
	referrals store.ReferralStore
	resolver  identity.Resolver
	validator *validation.Validator
	links     deeplink.Provider

	locks     referrerLocks
	logger    *slog.Logger
	metrics   *metrics.Metrics
	publisher events.Publisher
	tracer    trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithEventPublisher attaches a conversion event publisher.
func WithEventPublisher(publisher events.Publisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

// New constructs the referral service.
func New(
	referrals store.ReferralStore,
	resolver identity.Resolver,
	validator *validation.Validator,
	links deeplink.Provider,
	opts ...Option,
) (*Service, error) {
	if referrals == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "referral store is required")
	}
	if resolver == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "identity resolver is required")
	}
	if validator == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "validator is required")
	}
	if links == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "deeplink provider is required")
	}

	svc := &Service{
		referrals: referrals,
		resolver:  resolver,
		validator: validator,
		links:     links,
		logger:    slog.Default(),
		tracer:    otel.Tracer("refgate/referral"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}
