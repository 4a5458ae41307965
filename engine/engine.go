// Package engine provides the match engine and the orchestration around it:
// scene binding, the spawner, scoring, the deferred win check and scene
// transitions. All methods must be called from the goroutine that owns the
// engine.
package engine

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/nathoo/signstrike/engine/binding"
	"github.com/nathoo/signstrike/engine/events"
	"github.com/nathoo/signstrike/engine/fleet"
	"github.com/nathoo/signstrike/engine/focus"
	"github.com/nathoo/signstrike/engine/recognizer"
	"github.com/nathoo/signstrike/engine/sched"
	"github.com/nathoo/signstrike/engine/session"
	"github.com/nathoo/signstrike/engine/state"
	"github.com/nathoo/signstrike/engine/words"
	"github.com/nathoo/signstrike/types"
)

// callbackName is the name the engine registers on the recognizer.
const callbackName = "check"

// HUD receives write-only updates for display. Implementations are optional.
type HUD interface {
	SetScore(score, coins int)
	SetGuess(text string, fb types.Feedback)
}

// Context is everything a scene hands to the engine. A new Context replaces
// the previous one wholesale on every scene transition. Any collaborator may
// be nil; a victory screen, for example, has no pool.
type Context struct {
	Scene      types.SceneDef
	Pool       *words.Pool
	Recognizer recognizer.Recognizer
	HUD        HUD
}

// Options configures a new engine.
type Options struct {
	Seed   int64
	Strict bool // panic on binding invariant violations
	Logger *zap.Logger
}

// Engine holds the game definitions and the state of the running scene.
type Engine struct {
	Defs     *state.Defs
	Ledger   *session.Ledger
	RNG      *RNG
	Sched    *sched.Scheduler
	Fleet    *fleet.Fleet
	Bindings *binding.Registry
	Focus    *focus.Sync
	Strict   bool

	ctx     Context
	log     *zap.Logger
	spawner *sched.Task
	defeat  *sched.Task
	won     bool
	down    bool // player hit, defeat pending
	last    *types.MatchResult
	pending types.Result
}

// New creates an engine from definitions. The engine is idle until Start or
// Rebind is called.
func New(defs *state.Defs, opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	s := sched.New()
	e := &Engine{
		Defs:     defs,
		Ledger:   session.NewLedger(),
		RNG:      NewRNG(opts.Seed),
		Sched:    s,
		Fleet:    fleet.New(s, 1),
		Bindings: binding.New(0),
		Strict:   opts.Strict,
		log:      log.Named("engine"),
	}
	e.Focus = focus.New(nil, e.Bindings, nil, e.log.Named("focus"))
	e.Fleet.OnDestroy(e.entityGone)
	return e
}

// Start binds the recognizer and HUD and loads the starting scene.
func (e *Engine) Start(rec recognizer.Recognizer, hud HUD) error {
	e.ctx.Recognizer = rec
	e.ctx.HUD = hud
	return e.LoadScene(e.Defs.Game.Start)
}

// LoadScene builds a context for scene id, reusing the bound recognizer and
// HUD, and rebinds to it.
func (e *Engine) LoadScene(id string) error {
	ctx, err := e.ContextFor(id)
	if err != nil {
		return err
	}
	e.Rebind(ctx)
	return nil
}

// ContextFor builds the context for scene id. A missing or empty vocabulary
// is logged and leaves the scene with an empty pool; it is not an error.
func (e *Engine) ContextFor(id string) (Context, error) {
	sc, ok := state.Scene(e.Defs, id)
	if !ok {
		return Context{}, &UnknownSceneError{Scene: id}
	}
	ctx := Context{Scene: sc, Recognizer: e.ctx.Recognizer, HUD: e.ctx.HUD}
	if !state.HasVocabulary(sc) {
		return ctx, nil
	}

	raw, err := state.ReadVocabulary(sc)
	if err != nil {
		e.log.Warn("vocabulary source unavailable", zap.String("scene", sc.ID), zap.Error(err))
	}
	pool := words.NewPool(e.RNG)
	if err := pool.LoadFrom(sc.VocabularyPath, raw); err != nil {
		var cfgErr *words.ConfigError
		if errors.As(err, &cfgErr) {
			e.log.Warn("scene has no words, every draw will be empty",
				zap.String("scene", sc.ID), zap.Error(err))
		} else {
			return Context{}, err
		}
	}
	ctx.Pool = pool
	return ctx, nil
}

// Rebind replaces the running scene. Pending continuations of the previous
// scene are cancelled, its entities and bindings are discarded and the pool
// is reshuffled. The ledger survives.
func (e *Engine) Rebind(ctx Context) {
	e.Sched.CancelAll()
	e.spawner = nil
	e.defeat = nil
	e.Fleet.Clear()

	sc := ctx.Scene
	e.ctx = ctx
	e.won = false
	e.down = false
	e.last = nil
	e.Bindings = binding.New(sc.Slots)
	e.Fleet.ExplodeSteps = sc.ExplodeSteps
	if e.Fleet.ExplodeSteps < 1 {
		e.Fleet.ExplodeSteps = 1
	}

	if ctx.Pool != nil {
		ctx.Pool.ResetWorking()
	}
	if ctx.Recognizer != nil {
		ctx.Recognizer.AddCallback(callbackName, e.onGuess)
		ctx.Recognizer.SetFilter(nil)
	} else {
		e.log.Warn("no recognizer bound, guesses can only come from the engine API",
			zap.String("scene", sc.ID))
	}
	e.Focus = focus.New(ctx.Recognizer, e.Bindings, ctx.Pool, e.log.Named("focus"))
	e.updateScore()

	if ctx.Pool != nil && sc.Slots > 0 {
		e.spawner = e.Sched.Every(sc.FirstSpawn, max(sc.SpawnInterval, 1), "spawn", e.spawn)
	}
	if ctx.Pool != nil && sc.InitialEnemies > 0 {
		// Labels are assigned once the scene's entities have been placed.
		e.Sched.After(2, "assign_labels", e.assignInitial)
	}

	e.log.Info("scene bound",
		zap.String("scene", sc.ID),
		zap.Int("words", poolLen(ctx.Pool)),
		zap.Int("slots", sc.Slots))
	if sc.Intro != "" {
		e.pending.Output = append(e.pending.Output, sc.Intro)
	}
	e.emit(events.SceneStarted, map[string]any{"scene": sc.ID, "words": poolLen(ctx.Pool)})
}

// Restart zeroes the ledger and loads the starting scene, as for a new game.
func (e *Engine) Restart() error {
	e.Ledger.Reset()
	e.log.Info("game restarted")
	return e.LoadScene(e.Defs.Game.Start)
}

// CollectCoin credits one coin picked up in the bound scene.
func (e *Engine) CollectCoin() {
	e.Ledger.AddCoins(1)
	e.updateScore()
	e.emit(events.CoinCollected, map[string]any{"coins": e.Ledger.Coins()})
}

// Drawable lists the words the spawner can still draw, sorted. An empty
// query lists all of them, "min-max" filters by rune length and anything
// else is a prefix.
func (e *Engine) Drawable(query string) []string {
	p := e.ctx.Pool
	if p == nil {
		return nil
	}
	var out []string
	query = strings.TrimSpace(query)
	if lo, hi, ok := lengthRange(query); ok {
		out = p.FilterByLength(lo, hi)
	} else {
		out = p.FilterByPrefix(query)
	}
	sort.Strings(out)
	return out
}

func lengthRange(q string) (int, int, bool) {
	a, b, found := strings.Cut(q, "-")
	if !found {
		return 0, 0, false
	}
	lo, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0, false
	}
	hi, err := strconv.Atoi(b)
	if err != nil {
		return 0, 0, false
	}
	return lo, hi, true
}

// SubmitGuess matches a guess against the live bindings. Matching is not
// positional: any live word may be matched at any time.
func (e *Engine) SubmitGuess(raw string) types.MatchResult {
	text := words.Normalize(raw)
	if e.down {
		e.log.Debug("guess ignored, player is down", zap.String("text", text))
		res := types.MatchResult{Feedback: types.FeedbackNone, Text: text}
		e.finishGuess(res)
		return res
	}
	if text == "" {
		res := types.MatchResult{Feedback: types.FeedbackNone}
		e.finishGuess(res)
		return res
	}

	b, ok := e.Bindings.FindByWord(text, true)
	if !ok {
		res := types.MatchResult{Feedback: types.FeedbackMiss, Text: text}
		e.log.Debug("guess missed", zap.String("text", text))
		e.finishGuess(res)
		return res
	}

	res := e.retire(b, true)
	res.Text = text
	e.finishGuess(res)
	return res
}

// ForceKill eliminates the oldest live binding through the same path and
// scoring as a matched guess. Reports false when nothing is live.
func (e *Engine) ForceKill() (types.MatchResult, bool) {
	b, ok := e.Bindings.Oldest()
	if !ok || e.down {
		return types.MatchResult{}, false
	}
	res := e.retire(b, true)
	res.Text = b.Word
	e.finishGuess(res)
	e.log.Debug("forced elimination", zap.String("word", b.Word))
	return res, true
}

// EntityDestroyed removes an entity through an external path such as a
// collision. Its word is retired without awarding points.
func (e *Engine) EntityDestroyed(id types.EntityID) {
	if e.Fleet.Alive(id) {
		e.Fleet.Destroy(id) // reaches entityGone through the fleet hook
		return
	}
	e.entityGone(id)
}

// PlayerHit records a collision between the player and enemy id. The enemy
// is destroyed and, when the scene names one, the defeat scene loads after
// the configured delay. Until then the scene can no longer be won and
// guesses are ignored.
func (e *Engine) PlayerHit(id types.EntityID) {
	sc := e.ctx.Scene
	if sc.DefeatScene != "" {
		e.down = true
	}
	e.EntityDestroyed(id)
	e.emit(events.PlayerHit, map[string]any{"scene": sc.ID})

	if sc.DefeatScene == "" {
		e.log.Info("player hit, scene has no defeat transition", zap.String("scene", sc.ID))
		return
	}
	if !e.defeat.Cancelled() {
		return
	}
	e.spawner.Cancel()
	e.spawner = nil
	e.defeat = e.Sched.After(sc.DefeatDelay, "defeat", func() {
		e.transition(sc.DefeatScene)
	})
}

// BeginSign opens the recognizer's capture window.
func (e *Engine) BeginSign() {
	g, ok := e.ctx.Recognizer.(recognizer.Gesture)
	if !ok {
		e.log.Warn("recognizer does not support hold gestures")
		return
	}
	g.Begin()
}

// EndSign closes the capture window. With commit the captured text is
// delivered as a guess and its result returned; otherwise the capture is
// discarded and no state changes.
func (e *Engine) EndSign(commit bool) *types.MatchResult {
	g, ok := e.ctx.Recognizer.(recognizer.Gesture)
	if !ok {
		e.log.Warn("recognizer does not support hold gestures")
		return nil
	}
	if !commit {
		g.Abort()
		return nil
	}
	e.last = nil
	g.Commit()
	return e.last
}

// Step advances the scheduler by one step and returns what happened since
// the previous Step or Drain.
func (e *Engine) Step() types.Result {
	e.Sched.Step()
	return e.Drain()
}

// Drain returns and clears the events and narration accumulated so far.
func (e *Engine) Drain() types.Result {
	res := e.pending
	e.pending = types.Result{}
	return res
}

// LastMatch returns the most recent guess result, or nil.
func (e *Engine) LastMatch() *types.MatchResult { return e.last }

// Live returns the live bindings in attach order.
func (e *Engine) Live() []types.Binding { return e.Bindings.Live() }

// Scene returns the bound scene.
func (e *Engine) Scene() types.SceneDef { return e.ctx.Scene }

// Pool returns the bound word pool, or nil.
func (e *Engine) Pool() *words.Pool { return e.ctx.Pool }

// Won reports whether the bound scene has been won.
func (e *Engine) Won() bool { return e.won }

// Down reports whether the player was hit and the defeat scene is pending.
func (e *Engine) Down() bool { return e.down }

// onGuess is the recognizer callback.
func (e *Engine) onGuess(text string) {
	e.SubmitGuess(text)
}

func (e *Engine) finishGuess(res types.MatchResult) {
	e.last = &res
	e.pending.Match = &res
	if e.ctx.HUD != nil {
		e.ctx.HUD.SetGuess(res.Text, res.Feedback)
	}
}

// retire is the single elimination path. The focus filter is republished
// before it returns so the retired word cannot match again.
func (e *Engine) retire(b types.Binding, award bool) types.MatchResult {
	e.Bindings.Detach(b.Entity)
	if e.ctx.Pool != nil {
		e.ctx.Pool.Remove(b.Word)
	}

	points := 0
	if award {
		points = words.Points(b.Word)
		e.Ledger.AddScore(points)
		e.updateScore()
	}

	e.Fleet.Explode(b.Entity)
	e.Focus.Refresh()
	e.Sched.After(1, "win_check", e.checkWin)

	e.emit(events.EntityEliminated, map[string]any{
		"word":   b.Word,
		"points": points,
		"score":  e.Ledger.Score(),
	})
	return types.MatchResult{
		Matched:  true,
		Feedback: types.FeedbackHit,
		Word:     b.Word,
		Entity:   b.Entity,
		Points:   points,
	}
}

// entityGone is the fleet destroy hook. Entities destroyed after a match
// are already unbound and ignored.
func (e *Engine) entityGone(id types.EntityID) {
	b, ok := e.Bindings.Get(id)
	if !ok {
		return
	}
	e.retire(b, false)
}

// attach binds word to a freshly spawned entity. Invariant violations panic
// in strict mode; otherwise the entity is dropped so nothing stays unlabeled.
func (e *Engine) attach(id types.EntityID, word string, slot int) bool {
	if _, err := e.Bindings.Attach(id, word, slot); err != nil {
		if e.Strict {
			panic(err)
		}
		e.log.Error("binding rejected, dropping entity",
			zap.Uint64("entity", uint64(id)),
			zap.String("word", word),
			zap.Error(err))
		e.Fleet.Destroy(id)
		return false
	}
	return true
}

// spawn fills the first free slot with a new entity.
func (e *Engine) spawn() {
	slot := e.Bindings.FirstFreeSlot()
	if slot == binding.NoSlot {
		return
	}
	word := e.ctx.Pool.PopRandom()
	if word == words.Sentinel {
		e.log.Info("out of words, spawner stopped", zap.String("scene", e.ctx.Scene.ID))
		e.spawner.Cancel()
		e.spawner = nil
		e.emit(events.OutOfWords, map[string]any{"scene": e.ctx.Scene.ID})
		return
	}

	id := e.Fleet.Spawn(slot)
	if !e.attach(id, word, slot) {
		return
	}
	e.Focus.Refresh()
	e.emit(events.EntitySpawned, map[string]any{"word": word, "slot": slot})
}

// assignInitial labels the scene's opening wave in one batch.
func (e *Engine) assignInitial() {
	batch := e.ctx.Pool.PopNUnique(e.ctx.Scene.InitialEnemies)
	for _, word := range batch {
		id := e.Fleet.Spawn(binding.NoSlot)
		if !e.attach(id, word, binding.NoSlot) {
			continue
		}
		e.emit(events.EntitySpawned, map[string]any{"word": word, "slot": binding.NoSlot})
	}
	e.Focus.Refresh()
	e.log.Debug("initial labels assigned", zap.Int("count", len(batch)))
}

// checkWin runs one step after a removal so deferred destruction settles
// before "nothing live" is trusted.
func (e *Engine) checkWin() {
	if e.won || e.down || !e.Focus.CheckWinCondition() {
		return
	}
	e.won = true
	e.spawner.Cancel()
	e.spawner = nil

	sc := e.ctx.Scene
	e.Ledger.AddCoins(sc.Reward)
	e.updateScore()
	e.emit(events.SceneWon, map[string]any{
		"scene":  sc.ID,
		"score":  e.Ledger.Score(),
		"reward": sc.Reward,
	})

	if sc.WinScene == "" {
		e.log.Info("all ships destroyed and no words left", zap.String("scene", sc.ID))
		return
	}
	e.transition(sc.WinScene)
}

func (e *Engine) transition(id string) {
	if err := e.LoadScene(id); err != nil {
		e.log.Error("scene transition failed", zap.String("scene", id), zap.Error(err))
	}
}

func (e *Engine) emit(typ string, data map[string]any) {
	ev := types.Event{Type: typ, Data: data}
	e.pending.Events = append(e.pending.Events, ev)
	e.pending.Output = append(e.pending.Output,
		events.Dispatch([]types.Event{ev}, e.Defs, e.ctx.Scene.ID)...)
}

func (e *Engine) updateScore() {
	if e.ctx.HUD != nil {
		e.ctx.HUD.SetScore(e.Ledger.Score(), e.Ledger.Coins())
	}
}

func poolLen(p *words.Pool) int {
	if p == nil {
		return 0
	}
	return p.Len()
}
