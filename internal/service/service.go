package service

import (
	"github.com/viabaq/backend/internal/domain"
)

// SnapshotRepository is re-exported from domain for convenience
type SnapshotRepository = domain.SnapshotRepository
