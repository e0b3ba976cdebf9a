package store

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// FamilyTrees reads and writes trees plus the public read model. A tree that
// is absent and a tree that exists but is private produce the same
// not-found outcome so the endpoint cannot leak existence.
type FamilyTrees interface {
	repository.Repository[*FamilyTree]

	GetPublicTree(ctx context.Context, id uuid.UUID) (*PublicTree, error)
}

type familyTrees struct {
	repository.Repository[*FamilyTree]
	db *bun.DB
}

var _ FamilyTrees = (*familyTrees)(nil)

func NewFamilyTreesRepository(db *bun.DB) FamilyTrees {
	repo := repository.NewRepository[*FamilyTree](db, repository.ModelHandlers[*FamilyTree]{
		NewRecord: func() *FamilyTree { return &FamilyTree{} },
		GetID: func(t *FamilyTree) uuid.UUID {
			if t == nil {
				return uuid.Nil
			}
			return t.ID
		},
		SetID: func(t *FamilyTree, id uuid.UUID) {
			if t != nil {
				t.ID = id
			}
		},
	})

	return &familyTrees{
		Repository: repo,
		db:         db,
	}
}

func (r *familyTrees) GetPublicTree(ctx context.Context, id uuid.UUID) (*PublicTree, error) {
	tree := &FamilyTree{}
	err := r.db.NewSelect().
		Model(tree).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.deleted_at IS NULL").
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, notFoundTree(id)
		}
		return nil, err
	}

	if !tree.IsPublic {
		return nil, notFoundTree(id)
	}

	var people []*Person
	if err := r.db.NewSelect().
		Model(&people).
		Where("?TableAlias.tree_id = ?", id).
		Order("created_at ASC").
		Scan(ctx); err != nil {
		return nil, err
	}

	var relationships []*Relationship
	if err := r.db.NewSelect().
		Model(&relationships).
		Where("?TableAlias.tree_id = ?", id).
		Order("created_at ASC").
		Scan(ctx); err != nil {
		return nil, err
	}

	return &PublicTree{
		Tree:          tree,
		People:        people,
		Relationships: relationships,
	}, nil
}

func notFoundTree(id uuid.UUID) error {
	return repository.NewRecordNotFound().
		WithMetadata(map[string]any{
			"id": id.String(),
		})
}

func NewPersonsRepository(db *bun.DB) repository.Repository[*Person] {
	return repository.NewRepository[*Person](db, repository.ModelHandlers[*Person]{
		NewRecord: func() *Person { return &Person{} },
		GetID: func(p *Person) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *Person, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
	})
}

func NewRelationshipsRepository(db *bun.DB) repository.Repository[*Relationship] {
	return repository.NewRepository[*Relationship](db, repository.ModelHandlers[*Relationship]{
		NewRecord: func() *Relationship { return &Relationship{} },
		GetID: func(rel *Relationship) uuid.UUID {
			if rel == nil {
				return uuid.Nil
			}
			return rel.ID
		},
		SetID: func(rel *Relationship, id uuid.UUID) {
			if rel != nil {
				rel.ID = id
			}
		},
	})
}
