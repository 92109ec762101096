// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package authorization

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bureau-foundation/lightshow/lib/clock"
	"github.com/bureau-foundation/lightshow/lib/config"
	"github.com/bureau-foundation/lightshow/lib/permission"
	"github.com/bureau-foundation/lightshow/lib/statefile"
	"github.com/bureau-foundation/lightshow/lib/testutil"
	"github.com/bureau-foundation/lightshow/lib/throttle"
)

var epoch = time.Date(2026, 7, 4, 21, 0, 0, 0, time.UTC)

const window = 5 * time.Minute

// fixture is an engine over a fresh state file with a fake clock.
type fixture struct {
	engine    *Engine
	state     *statefile.Store
	throttle  *throttle.Store
	clock     *clock.FakeClock
	statePath string
}

func buildTable(t *testing.T, values map[string]string) *permission.Table {
	t.Helper()
	settings := config.New(map[string]map[string]string{"sms": values}, nil)
	section, err := settings.Section("sms")
	if err != nil {
		t.Fatalf("Section: %v", err)
	}
	table, err := permission.Build(section, testutil.Logger(t))
	if err != nil {
		t.Fatalf("permission.Build: %v", err)
	}
	return table
}

func newFixture(t *testing.T, values map[string]string) *fixture {
	t.Helper()
	statePath := filepath.Join(t.TempDir(), "config", "state.yaml")
	state, err := statefile.Open(statePath, testutil.Logger(t))
	if err != nil {
		t.Fatalf("statefile.Open: %v", err)
	}
	fake := clock.Fake(epoch)
	store := throttle.New(state, window, fake, testutil.Logger(t))
	return &fixture{
		engine:    NewEngine(buildTable(t, values), store, testutil.Logger(t)),
		state:     state,
		throttle:  store,
		clock:     fake,
		statePath: statePath,
	}
}

func (f *fixture) authorize(t *testing.T, user, command string) Decision {
	t.Helper()
	decision, err := f.engine.Authorize(user, command)
	if err != nil {
		t.Fatalf("Authorize(%q, %q): %v", user, command, err)
	}
	return decision
}

func (f *fixture) count(t *testing.T, group, key string) int {
	t.Helper()
	loaded, err := f.throttle.Load()
	if err != nil {
		t.Fatalf("throttle Load: %v", err)
	}
	return loaded.Count(group, key)
}

// partyValues: vip may play twice per window, guest may not play at
// all, and mallory is blacklisted even though she holds every grant.
func partyValues() map[string]string {
	return map[string]string{
		"commands":       "play, volume, help",
		"play_aliases":   "p",
		"groups":         "vip, guest, staff",
		"vip_users":      "alice",
		"vip_commands":   "play",
		"vip_throttle":   "play:2",
		"guest_users":    "alice, bob",
		"guest_commands": "play, help",
		"guest_throttle": "play:0",
		"staff_users":    "mallory",
		"staff_commands": "all",
		"blacklist":      "mallory",
	}
}

func TestAuthorize_FirstGroupLimitApplies(t *testing.T) {
	f := newFixture(t, partyValues())

	want := []Verdict{Allowed, Allowed, DeniedThrottled}
	for i, verdict := range want {
		decision := f.authorize(t, "alice", "play")
		if decision.Verdict != verdict {
			t.Fatalf("call %d: Verdict = %v, want %v", i+1, decision.Verdict, verdict)
		}
		if decision.Group != "vip" {
			t.Errorf("call %d: Group = %q, want vip", i+1, decision.Group)
		}
	}
	if got := f.count(t, "vip", "play"); got != 2 {
		t.Errorf("vip play count = %d, want 2", got)
	}
	if got := f.count(t, "guest", "play"); got != 0 {
		t.Errorf("guest play count = %d, want 0 (guest limit never consulted)", got)
	}
}

func TestAuthorize_ZeroLimitDeniesImmediately(t *testing.T) {
	f := newFixture(t, partyValues())

	decision := f.authorize(t, "bob", "play")
	if decision.Verdict != DeniedThrottled || decision.Reason != ReasonCommandLimit {
		t.Errorf("bob play = %v (%v), want %v (%v)", decision.Verdict, decision.Reason, DeniedThrottled, ReasonCommandLimit)
	}
	if decision.Throttle != Exceeded {
		t.Errorf("Throttle = %v, want %v", decision.Throttle, Exceeded)
	}
}

func TestAuthorize_BlacklistAlwaysDenied(t *testing.T) {
	f := newFixture(t, partyValues())
	logger, logs := testutil.CaptureLogger()
	engine := NewEngine(f.engine.Table(), f.throttle, logger)

	for _, command := range []string{"play", "volume", "help", "unknown"} {
		decision, err := engine.Authorize("mallory", command)
		if err != nil {
			t.Fatalf("Authorize: %v", err)
		}
		if decision.Verdict != DeniedBlacklist || decision.Reason != ReasonBlacklisted {
			t.Errorf("mallory %s = %v (%v), want blacklist denial", command, decision.Verdict, decision.Reason)
		}
		if decision.Throttle != NotThrottled {
			t.Errorf("mallory %s touched the throttle: %v", command, decision.Throttle)
		}
	}

	loaded, err := f.throttle.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !loaded.Start.IsZero() {
		t.Errorf("blacklisted calls persisted a throttle window: %+v", loaded)
	}
	if !logs.Contains("command denied") || !logs.Contains("user=mallory") {
		t.Errorf("blacklist denial not logged; logs:\n%s", logs.String())
	}
}

func TestHasPermission(t *testing.T) {
	f := newFixture(t, partyValues())

	tests := []struct {
		user    string
		command string
		verdict Verdict
		reason  DenyReason
	}{
		{"alice", "play", Allowed, ReasonNone},
		{"alice", "P", Allowed, ReasonNone},
		{"alice", "volume", DeniedPermission, ReasonNoGrant},
		{"bob", "help", Allowed, ReasonNone},
		{"carol", "help", DeniedPermission, ReasonNoGrant},
		{"mallory", "help", DeniedBlacklist, ReasonBlacklisted},
	}
	for _, test := range tests {
		verdict, reason := f.engine.HasPermission(test.user, test.command)
		if verdict != test.verdict || reason != test.reason {
			t.Errorf("HasPermission(%q, %q) = %v, %v; want %v, %v",
				test.user, test.command, verdict, reason, test.verdict, test.reason)
		}
	}
}

func TestHasPermission_GrantsToAll(t *testing.T) {
	values := map[string]string{
		"commands":          "help, play",
		"groups":            "everyone, admin",
		"everyone_users":    "all",
		"everyone_commands": "help",
		"admin_users":       "root",
		"admin_commands":    "all",
		"blacklist":         "",
	}
	f := newFixture(t, values)

	tests := []struct {
		user    string
		command string
		verdict Verdict
	}{
		{"stranger", "help", Allowed},
		{"stranger", "play", DeniedPermission},
		{"root", "play", Allowed},
		{"root", "not-a-command", Allowed},
	}
	for _, test := range tests {
		if verdict, _ := f.engine.HasPermission(test.user, test.command); verdict != test.verdict {
			t.Errorf("HasPermission(%q, %q) = %v, want %v", test.user, test.command, verdict, test.verdict)
		}
	}
}

func TestAuthorize_DeniedPermissionSkipsThrottle(t *testing.T) {
	f := newFixture(t, partyValues())

	decision := f.authorize(t, "alice", "volume")
	if decision.Verdict != DeniedPermission {
		t.Fatalf("Verdict = %v, want %v", decision.Verdict, DeniedPermission)
	}
	if decision.Throttle != NotThrottled || decision.Group != "" {
		t.Errorf("denied call reports throttle %v group %q", decision.Throttle, decision.Group)
	}
}

func TestAuthorize_ResolvesAliases(t *testing.T) {
	f := newFixture(t, partyValues())

	first := f.authorize(t, "alice", "p")
	second := f.authorize(t, "alice", " PLAY ")
	third := f.authorize(t, "alice", "P")

	if first.Command != "play" || second.Command != "play" {
		t.Errorf("resolved commands = %q, %q; want play", first.Command, second.Command)
	}
	if !first.Allowed() || !second.Allowed() {
		t.Errorf("first two calls should be allowed: %v, %v", first.Verdict, second.Verdict)
	}
	if third.Verdict != DeniedThrottled {
		t.Errorf("alias and command share one counter; third call = %v, want %v", third.Verdict, DeniedThrottled)
	}
}

func TestAuthorize_UnthrottledCommand(t *testing.T) {
	f := newFixture(t, partyValues())

	for i := 0; i < 10; i++ {
		decision := f.authorize(t, "bob", "help")
		if !decision.Allowed() || decision.Throttle != NotThrottled {
			t.Fatalf("call %d: %v / %v, want allowed and not throttled", i+1, decision.Verdict, decision.Throttle)
		}
	}
}

func TestAuthorize_GroupPrecedenceByDeclarationOrder(t *testing.T) {
	values := map[string]string{
		"commands":          "play",
		"groups":            "strict, generous",
		"strict_users":      "dave",
		"strict_commands":   "play",
		"strict_throttle":   "all:1",
		"generous_users":    "dave",
		"generous_commands": "play",
		"generous_throttle": "all:100",
		"blacklist":         "",
	}
	f := newFixture(t, values)

	if decision := f.authorize(t, "dave", "play"); !decision.Allowed() {
		t.Fatalf("first call = %v, want allowed", decision.Verdict)
	}
	decision := f.authorize(t, "dave", "play")
	if decision.Verdict != DeniedThrottled || decision.Group != "strict" {
		t.Errorf("second call = %v by %q, want throttled by strict", decision.Verdict, decision.Group)
	}
	if decision.Reason != ReasonAllLimit {
		t.Errorf("Reason = %v, want %v", decision.Reason, ReasonAllLimit)
	}
}

func TestAuthorize_AllLimitCheckedFirst(t *testing.T) {
	values := map[string]string{
		"commands":       "play",
		"groups":         "crowd",
		"crowd_users":    "erin",
		"crowd_commands": "play",
		"crowd_throttle": "all:1, play:5",
		"blacklist":      "",
	}
	f := newFixture(t, values)

	first := f.authorize(t, "erin", "play")
	if !first.Allowed() || first.Throttle != Incremented {
		t.Fatalf("first call = %v / %v, want allowed and incremented", first.Verdict, first.Throttle)
	}
	second := f.authorize(t, "erin", "play")
	if second.Verdict != DeniedThrottled || second.Reason != ReasonAllLimit {
		t.Fatalf("second call = %v (%v), want all-limit denial", second.Verdict, second.Reason)
	}

	if got := f.count(t, "crowd", permission.All); got != 1 {
		t.Errorf("all count = %d, want 1", got)
	}
	if got := f.count(t, "crowd", "play"); got != 1 {
		t.Errorf("play count = %d, want 1 (not incremented by the denied call)", got)
	}
}

func TestAuthorize_CommandLimitKeepsAllCount(t *testing.T) {
	values := map[string]string{
		"commands":       "play, help",
		"groups":         "crowd",
		"crowd_users":    "erin",
		"crowd_commands": "play, help",
		"crowd_throttle": "all:10, play:1",
		"blacklist":      "",
	}
	f := newFixture(t, values)

	if decision := f.authorize(t, "erin", "play"); !decision.Allowed() {
		t.Fatalf("first play = %v, want allowed", decision.Verdict)
	}
	decision := f.authorize(t, "erin", "play")
	if decision.Verdict != DeniedThrottled || decision.Reason != ReasonCommandLimit {
		t.Fatalf("second play = %v (%v), want command-limit denial", decision.Verdict, decision.Reason)
	}

	if got := f.count(t, "crowd", permission.All); got != 2 {
		t.Errorf("all count = %d, want 2 (denied call's all count is kept)", got)
	}
	if got := f.count(t, "crowd", "play"); got != 1 {
		t.Errorf("play count = %d, want 1", got)
	}

	if decision := f.authorize(t, "erin", "help"); !decision.Allowed() {
		t.Errorf("help = %v, want allowed under the all limit", decision.Verdict)
	}
}

func TestAuthorize_WindowResets(t *testing.T) {
	f := newFixture(t, partyValues())

	f.authorize(t, "alice", "play")
	f.authorize(t, "alice", "play")
	if decision := f.authorize(t, "alice", "play"); decision.Verdict != DeniedThrottled {
		t.Fatalf("third call = %v, want throttled", decision.Verdict)
	}

	// The stop time itself still belongs to the window.
	f.clock.Advance(window)
	if decision := f.authorize(t, "alice", "play"); decision.Verdict != DeniedThrottled {
		t.Fatalf("call at stop time = %v, want throttled", decision.Verdict)
	}

	f.clock.Advance(time.Second)
	if decision := f.authorize(t, "alice", "play"); !decision.Allowed() {
		t.Fatalf("call after stop time = %v, want allowed", decision.Verdict)
	}

	loaded, err := f.throttle.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !loaded.Start.Equal(f.clock.Now()) {
		t.Errorf("window Start = %v, want %v", loaded.Start, f.clock.Now())
	}
	if got := loaded.Count("vip", "play"); got != 1 {
		t.Errorf("play count in new window = %d, want 1", got)
	}
}

func TestCheckThrottle(t *testing.T) {
	f := newFixture(t, partyValues())

	tests := []struct {
		user    string
		command string
		want    ThrottleResult
	}{
		{"alice", "play", Incremented},
		{"alice", "p", Incremented},
		{"alice", "play", Exceeded},
		{"bob", "help", NotThrottled},
		{"nobody", "play", NotThrottled},
	}
	for i, test := range tests {
		got, err := f.engine.CheckThrottle(test.user, test.command)
		if err != nil {
			t.Fatalf("CheckThrottle %d: %v", i, err)
		}
		if got != test.want {
			t.Errorf("CheckThrottle(%q, %q) #%d = %v, want %v", test.user, test.command, i, got, test.want)
		}
	}
}

func TestAuthorize_NilThrottleStore(t *testing.T) {
	engine := NewEngine(buildTable(t, partyValues()), nil, testutil.Logger(t))
	for i := 0; i < 5; i++ {
		decision, err := engine.Authorize("alice", "play")
		if err != nil {
			t.Fatalf("Authorize: %v", err)
		}
		if !decision.Allowed() {
			t.Fatalf("call %d = %v, want allowed without a throttle store", i+1, decision.Verdict)
		}
	}
}

func TestAuthorize_SharedStateAcrossEngines(t *testing.T) {
	f := newFixture(t, partyValues())

	other, err := statefile.Open(f.statePath, testutil.Logger(t))
	if err != nil {
		t.Fatalf("statefile.Open: %v", err)
	}
	second := NewEngine(f.engine.Table(), throttle.New(other, window, f.clock, testutil.Logger(t)), testutil.Logger(t))

	f.authorize(t, "alice", "play")
	decision, err := second.Authorize("alice", "play")
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if !decision.Allowed() {
		t.Fatalf("second engine call = %v, want allowed", decision.Verdict)
	}
	if decision := f.authorize(t, "alice", "play"); decision.Verdict != DeniedThrottled {
		t.Errorf("third call across engines = %v, want throttled", decision.Verdict)
	}
}

func TestAuthorize_ConcurrentCallersNeverOvershoot(t *testing.T) {
	const (
		limit   = 7
		engines = 6
		calls   = 10
	)
	values := map[string]string{
		"commands":       "play",
		"groups":         "crowd",
		"crowd_users":    "frank",
		"crowd_commands": "play",
		"crowd_throttle": "play:7",
		"blacklist":      "",
	}
	f := newFixture(t, values)

	var (
		mu      sync.Mutex
		allowed int
		wg      sync.WaitGroup
	)
	for i := 0; i < engines; i++ {
		// Each engine gets its own state handle, so the file locks
		// behave as they would between processes.
		state, err := statefile.Open(f.statePath, nil)
		if err != nil {
			t.Fatalf("statefile.Open: %v", err)
		}
		engine := NewEngine(f.engine.Table(), throttle.New(state, window, f.clock, nil), nil)

		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < calls; j++ {
				decision, err := engine.Authorize("frank", "play")
				if err != nil {
					t.Errorf("Authorize: %v", err)
					return
				}
				if decision.Allowed() {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	if allowed != limit {
		t.Errorf("allowed %d calls, want exactly %d", allowed, limit)
	}
	if got := f.count(t, "crowd", "play"); got != limit {
		t.Errorf("persisted play count = %d, want %d", got, limit)
	}
}

func TestVerdictStrings(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{Allowed.String(), "allowed"},
		{DeniedBlacklist.String(), "denied-blacklist"},
		{DeniedPermission.String(), "denied-permission"},
		{DeniedThrottled.String(), "denied-throttled"},
		{Verdict(99).String(), "unknown"},
		{Incremented.String(), "incremented"},
		{ReasonAllLimit.String(), "group limit for all commands reached"},
	}
	for _, test := range tests {
		if test.got != test.want {
			t.Errorf("String() = %q, want %q", test.got, test.want)
		}
	}
}
