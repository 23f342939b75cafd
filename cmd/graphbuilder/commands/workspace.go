package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/auftraggeber/WHZ-graph-builder/cmd/graphbuilder/internal/config"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/editor"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/graph"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/graphstore"
	"github.com/auftraggeber/WHZ-graph-builder/pkg/kv"
)

// testKVOverride replaces the badger workspace in tests. It is never closed
// by the commands.
var testKVOverride kv.Store

// workspace is the persisted editing state of one invocation.
type workspace struct {
	cfg     *config.Config
	store   kv.Store
	owned   bool
	graphs  *graphstore.Store
	session *editor.Session
}

// openWorkspace loads the configured graph into a new editing session.
func openWorkspace(ctx context.Context) (*workspace, error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, err
	}

	ws := &workspace{cfg: cfg, store: testKVOverride}
	if ws.store == nil {
		b, err := kv.NewBadger(kv.BadgerOptions{Dir: cfg.WorkspaceDir(), Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("open workspace %s: %w", cfg.WorkspaceDir(), err)
		}
		ws.store, ws.owned = b, true
	}

	ws.graphs = graphstore.New(ws.store, kv.Key{"graph", cfg.GraphName()})
	sess := editor.New(nil, editor.WithLogger(logger))
	g, err := ws.graphs.Load(ctx, sess.Registry())
	if err != nil {
		ws.Close()
		return nil, fmt.Errorf("load workspace: %w", err)
	}
	sess.Replace(g)
	ws.session = sess
	return ws, nil
}

// save writes the session's graph back to the workspace.
func (ws *workspace) save(ctx context.Context) error {
	return ws.session.Do(func(g *graph.Graph) error {
		return ws.graphs.Save(ctx, g)
	})
}

// Close releases the workspace database.
func (ws *workspace) Close() error {
	if !ws.owned {
		return nil
	}
	return ws.store.Close()
}

// withWorkspace runs fn on the workspace and, if mutate is set and fn
// succeeded, saves the graph.
func withWorkspace(ctx context.Context, mutate bool, fn func(ws *workspace) error) (err error) {
	ws, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, ws.Close())
	}()

	if err := fn(ws); err != nil {
		return err
	}
	if mutate {
		if err := ws.save(ctx); err != nil {
			return fmt.Errorf("save workspace: %w", err)
		}
	}
	return nil
}
