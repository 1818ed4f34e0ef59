package services

import (
	"context"

	"parkslot/store"
)

// flakyStore wraps a real store and fails selected operations, for
// exercising the error taxonomy and the partial-failure paths.
type flakyStore struct {
	store.Store
	getErr      error
	getAllErr   error
	setAllErr   error
	createErr   error
	updateErr   error
	updateIfErr error
	removeErr   error
}

func (f *flakyStore) Get(ctx context.Context, path string) (store.Document, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.Store.Get(ctx, path)
}

func (f *flakyStore) GetAll(ctx context.Context, tree string) (map[string]store.Document, error) {
	if f.getAllErr != nil {
		return nil, f.getAllErr
	}
	return f.Store.GetAll(ctx, tree)
}

func (f *flakyStore) SetAll(ctx context.Context, tree string, docs map[string]store.Document) error {
	if f.setAllErr != nil {
		return f.setAllErr
	}
	return f.Store.SetAll(ctx, tree, docs)
}

func (f *flakyStore) Create(ctx context.Context, path string, doc store.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	return f.Store.Create(ctx, path, doc)
}

func (f *flakyStore) Update(ctx context.Context, path string, fields store.Document) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	return f.Store.Update(ctx, path, fields)
}

func (f *flakyStore) UpdateIf(ctx context.Context, path string, guard store.Document, fields store.Document) error {
	if f.updateIfErr != nil {
		return f.updateIfErr
	}
	return f.Store.UpdateIf(ctx, path, guard, fields)
}

func (f *flakyStore) Remove(ctx context.Context, path string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	return f.Store.Remove(ctx, path)
}
