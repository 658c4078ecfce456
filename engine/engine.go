// Package engine is the facade tying the bind/plan/execute phases
// together for whatever surrounds this core (a server, a CLI, a test
// harness): the four operations §6 says the core exposes outward.
// bind stays a black box here — binding lives with the surrounding
// catalogue/parser, not this core (§1 Non-goals) — so Engine accepts an
// already-bound plan.Node and takes the caller's Binder only as an
// optional convenience hook.
package engine

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/cottontaildb/queryengine/binding"
	"github.com/cottontaildb/queryengine/catalog"
	"github.com/cottontaildb/queryengine/cost"
	"github.com/cottontaildb/queryengine/engine/errors"
	"github.com/cottontaildb/queryengine/physical"
	"github.com/cottontaildb/queryengine/plan"
	"github.com/cottontaildb/queryengine/plancache"
	"github.com/cottontaildb/queryengine/planner"
	"github.com/cottontaildb/queryengine/sql"
)

// Binder is the external collaborator that turns a query into a bound
// logical tree. The core treats it as a black box (§1, §6): Engine only
// ever calls it through this interface, never implements one itself.
type Binder interface {
	Bind(query string) (plan.Node, error)
}

// Config collects the collaborators and policy an Engine is built from.
// Rules and Policy default to the §4.3-mandated rule set and
// cost.DefaultPolicy() when left zero; Cache, Durable and Log are all
// optional and degrade to no-ops when nil, the same convention
// plancache.Cache/DurableStore already follow.
type Config struct {
	Binder     Binder
	IndexesFor func(e catalog.Entity) []catalog.Index
	Rules      []planner.RewriteRule
	Policy     cost.Policy
	Cache      *plancache.Cache
	Durable    *plancache.DurableStore
	Log        *logrus.Entry
}

// Engine is the single entry point a caller drives a query through:
// bind (external), PlanAndSelect, ToOperatorTree, Run.
type Engine struct {
	binder     Binder
	indexesFor func(e catalog.Entity) []catalog.Index
	rules      []planner.RewriteRule
	policy     cost.Policy
	cache      *plancache.Cache
	durable    *plancache.DurableStore
	log        *logrus.Entry
}

// New builds an Engine from cfg, filling in the §4.3 default rewrite
// rule set and a silent logger when the caller left those zero.
func New(cfg Config) *Engine {
	rules := cfg.Rules
	if rules == nil {
		rules = planner.DefaultRewriteRules()
	}
	log := cfg.Log
	if log == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		log = logrus.NewEntry(logger)
	}
	indexesFor := cfg.IndexesFor
	if indexesFor == nil {
		indexesFor = func(catalog.Entity) []catalog.Index { return nil }
	}
	policy := cfg.Policy
	if (policy == cost.Policy{}) {
		policy = cost.DefaultPolicy()
	}
	return &Engine{
		binder:     cfg.Binder,
		indexesFor: indexesFor,
		rules:      rules,
		policy:     policy,
		cache:      cfg.Cache,
		durable:    cfg.Durable,
		log:        log,
	}
}

// Bind delegates to the configured Binder. Returns ErrNotSupported if
// none was configured — callers that already hold a bound plan.Node skip
// this and call PlanAndSelect directly.
func (e *Engine) Bind(query string) (plan.Node, error) {
	if e.binder == nil {
		return nil, errors.ErrNotSupported.New("no Binder configured")
	}
	return e.binder.Bind(query)
}

// PlanAndSelect runs the bound logical tree through every planning phase
// (§4.3): fixed-point rewrite, implement, select-minimum-cost, mandatory
// boolean-index-scan substitution, then partitioning. cache controls
// whether the result is written back to the in-memory Cache (and, when
// configured, the durable warm-start store); bypassCache skips the
// lookup entirely, forcing a fresh plan even for a digest already held.
func (e *Engine) PlanAndSelect(logical plan.Node, bypassCache, cache bool) (physical.Node, error) {
	digest, err := plancache.Digest(logical)
	if err != nil {
		return nil, fmt.Errorf("engine: digest logical plan: %w", err)
	}
	log := e.log.WithField("digest", digest)

	if !bypassCache && e.cache != nil {
		if cached, ok := e.cache.Get(digest); ok {
			log.Debug("plan cache hit")
			return cached, nil
		}
		log.Debug("plan cache miss")
		if e.durable != nil {
			if sum, ok, derr := e.durable.Get(digest); derr == nil && ok {
				log.WithFields(logrus.Fields{"shape": sum.Shape, "score": sum.Score}).
					Info("durable plan cache warm-start hit; recomputing executable tree")
			}
		}
	}

	rewritten, err := planner.Rewrite(logical, e.rules)
	if err != nil {
		return nil, fmt.Errorf("engine: rewrite: %w", err)
	}

	implCtx := &plan.ImplementContext{IndexesFor: e.indexesFor}
	candidates, err := planner.Implement(implCtx, rewritten)
	if err != nil {
		return nil, fmt.Errorf("engine: implement: %w", err)
	}

	selected, err := planner.Select(candidates, e.policy)
	if err != nil {
		return nil, fmt.Errorf("engine: select: %w", err)
	}

	selected = planner.ApplyBooleanIndexScan(selected, e.policy, e.indexesFor)
	selected = planner.Partition(selected, e.policy)

	if cache {
		if e.cache != nil {
			e.cache.Put(digest, selected)
		}
		if e.durable != nil {
			sum := plancache.Summary{Score: e.policy.ToScore(physical.TotalCost(selected)), Shape: selected.String()}
			if derr := e.durable.Put(digest, sum); derr != nil {
				log.WithError(derr).Warn("failed to persist plan summary to durable store")
			}
		}
	}
	return selected, nil
}

// ToOperatorTree converts a selected physical plan into a live,
// pullable rowexec.Operator graph, bound to bindCtx for late binding
// resolution and to the given query Context for tracing/logging.
func (e *Engine) ToOperatorTree(query *sql.Context, bindCtx *binding.Context, selected physical.Node) (Operator, error) {
	execCtx := &physical.ExecContext{Query: query, Binding: bindCtx}
	return selected.ToOperator(execCtx)
}
