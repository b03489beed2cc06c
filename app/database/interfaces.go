package database

import (
	"context"

	"github.com/lysyi3m/gradcafe-comb/app/applicant"
)

var _ ApplicantStore = (*ApplicantRepository)(nil)

type ApplicantStore interface {
	EnsureSchema(ctx context.Context) error
	InsertApplicants(ctx context.Context, records []applicant.Record) (int, error)
	ListApplicants(ctx context.Context) ([]applicant.Stored, error)
	GetApplicantCount(ctx context.Context) (int, error)
	SetStandardNames(ctx context.Context, names []applicant.StandardName) (int, error)
}
