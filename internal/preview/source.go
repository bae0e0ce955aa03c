package preview

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dukerupert/menuboard/internal/model"
)

type LayoutLoader interface {
	LoadLayoutConfig(ctx context.Context, businessID int64, menuName string) (model.LayoutConfig, error)
}

type ItemLister interface {
	ListItems(ctx context.Context, businessID int64, menuName string) ([]model.CatalogItem, error)
}

type CategoryLister interface {
	ListCategories(ctx context.Context, businessID int64) ([]model.Category, error)
}

// BusinessGetter returns nil, nil for an unknown business.
type BusinessGetter interface {
	GetBusiness(ctx context.Context, id int64) (*model.Business, error)
}

// Inputs is everything Render needs for one menu.
type Inputs struct {
	Config     model.LayoutConfig
	Items      []model.CatalogItem
	Categories []model.Category
	Business   BusinessInfo
}

func (in Inputs) Render() Tree {
	return Render(in.Config, in.Items, in.Categories, in.Business)
}

// Loader gathers render inputs from the stores concurrently.
type Loader struct {
	layouts    LayoutLoader
	items      ItemLister
	categories CategoryLister
	businesses BusinessGetter
}

func NewLoader(layouts LayoutLoader, items ItemLister, categories CategoryLister, businesses BusinessGetter) *Loader {
	return &Loader{
		layouts:    layouts,
		items:      items,
		categories: categories,
		businesses: businesses,
	}
}

// Load reads the saved layout config along with the catalog.
func (l *Loader) Load(ctx context.Context, businessID int64, menuName string) (Inputs, error) {
	var cfg model.LayoutConfig
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cfg, err = l.layouts.LoadLayoutConfig(gctx, businessID, menuName)
		if err != nil {
			return fmt.Errorf("load layout config: %w", err)
		}
		return nil
	})

	var in Inputs
	g.Go(func() error {
		var err error
		in, err = l.catalog(gctx, businessID, menuName)
		return err
	})
	if err := g.Wait(); err != nil {
		return Inputs{}, err
	}
	in.Config = cfg
	return in, nil
}

// LoadWith reads the catalog for an unsaved draft config.
func (l *Loader) LoadWith(ctx context.Context, businessID int64, cfg model.LayoutConfig) (Inputs, error) {
	in, err := l.catalog(ctx, businessID, cfg.SelectedMenu)
	if err != nil {
		return Inputs{}, err
	}
	in.Config = cfg
	return in, nil
}

func (l *Loader) catalog(ctx context.Context, businessID int64, menuName string) (Inputs, error) {
	var in Inputs
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := l.items.ListItems(gctx, businessID, menuName)
		if err != nil {
			return fmt.Errorf("list items: %w", err)
		}
		in.Items = items
		return nil
	})
	g.Go(func() error {
		cats, err := l.categories.ListCategories(gctx, businessID)
		if err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		in.Categories = cats
		return nil
	})
	g.Go(func() error {
		b, err := l.businesses.GetBusiness(gctx, businessID)
		if err != nil {
			return fmt.Errorf("get business: %w", err)
		}
		if b != nil {
			in.Business = BusinessInfo{Name: b.Name, Tagline: b.Tagline, LogoURL: b.LogoURL}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Inputs{}, err
	}
	return in, nil
}
