package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/bnema/pdv/internal/domain"
)

// MockTableStore is a mock implementation of out.TableStore
type MockTableStore struct {
	mock.Mock
}

func (m *MockTableStore) ReadTables(ctx context.Context, tables []string) (map[string][]domain.Row, error) {
	args := m.Called(ctx, tables)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.Row), args.Error(1)
}

func (m *MockTableStore) Columns(ctx context.Context, table string) ([]string, error) {
	args := m.Called(ctx, table)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTableStore) ReplaceTables(ctx context.Context, tables []string, rows map[string][]domain.Row) error {
	args := m.Called(ctx, tables, rows)
	return args.Error(0)
}

// MockSnapshotStorage is a mock implementation of out.SnapshotStorage
type MockSnapshotStorage struct {
	mock.Mock
}

func (m *MockSnapshotStorage) Write(ctx context.Context, ts time.Time, encode func(w io.Writer) error) (domain.BackupFile, error) {
	args := m.Called(ctx, ts, encode)
	return args.Get(0).(domain.BackupFile), args.Error(1)
}

func (m *MockSnapshotStorage) Open(ctx context.Context, name string) (io.ReadCloser, domain.BackupFile, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Get(1).(domain.BackupFile), args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(domain.BackupFile), args.Error(2)
}

func (m *MockSnapshotStorage) List(ctx context.Context) ([]domain.BackupFile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BackupFile), args.Error(1)
}

func (m *MockSnapshotStorage) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockSnapshotStorage) Prune(ctx context.Context, keep int) (int, error) {
	args := m.Called(ctx, keep)
	return args.Int(0), args.Error(1)
}
