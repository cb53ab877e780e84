package store

import (
	"context"
	"errors"

	errs "github.com/matzehuels/radialtree/pkg/errors"
	"github.com/matzehuels/radialtree/pkg/hierarchy"
)

// Update loads the snapshot, applies fn and saves the result. fn must not
// modify its argument; it returns the new snapshot. Callers sharing a store
// across goroutines serialize Update themselves.
func Update(ctx context.Context, st Store, fn func(*hierarchy.Hierarchy) (*hierarchy.Hierarchy, error)) (*hierarchy.Hierarchy, error) {
	h, err := st.Load(ctx)
	if err != nil {
		return nil, err
	}
	next, err := fn(h)
	if err != nil {
		return nil, err
	}
	if err := st.Save(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Link merges req into the stored hierarchy. Node names are validated with
// [errs.ValidateNodeID]; blank child names are skipped.
func Link(ctx context.Context, st Store, req hierarchy.LinkRequest) (*hierarchy.Hierarchy, error) {
	if err := errs.ValidateNodeID(req.ParentID); err != nil {
		return nil, err
	}
	for _, c := range req.ChildIDs {
		if c == "" {
			continue
		}
		if err := errs.ValidateNodeID(c); err != nil {
			return nil, err
		}
	}

	return Update(ctx, st, func(h *hierarchy.Hierarchy) (*hierarchy.Hierarchy, error) {
		next, err := hierarchy.Merge(h, req)
		if errors.Is(err, hierarchy.ErrSelfLink) || errors.Is(err, hierarchy.ErrInvalidNodeID) {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "link %q", req.ParentID)
		}
		return next, err
	})
}

// Unlink removes the parent → child relation from the stored hierarchy.
// A missing node is [errs.ErrCodeNodeNotFound].
func Unlink(ctx context.Context, st Store, parentID, childID string) (*hierarchy.Hierarchy, error) {
	return Update(ctx, st, func(h *hierarchy.Hierarchy) (*hierarchy.Hierarchy, error) {
		next, err := hierarchy.Unlink(h, parentID, childID)
		if errors.Is(err, hierarchy.ErrUnknownNode) {
			return nil, errs.Wrap(errs.ErrCodeNodeNotFound, err, "unlink %q from %q", childID, parentID)
		}
		return next, err
	})
}
