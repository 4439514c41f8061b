package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/combatcore/internal/effect"
	"github.com/udisondev/combatcore/internal/schedule"
	"github.com/udisondev/combatcore/internal/testutil"
)

const tick = 100 * time.Millisecond

type chain struct {
	sched   *schedule.Manager
	effects *effect.Manager
	base    *BaseProvider
	body    *BodyProvider
	attack  *AttackProvider
}

var testBody = BodyConfig{MaxHealth: 100, MoveSpeed: 5, Defense: 10, DodgeRate: 0.1}

var testAttack = AttackConfig{Damage: 20, DamageMultiplier: 1, CriticalRate: 0.05, CriticalDamage: 1.5, AttackSpeed: 1}

func effectConfigs() []effect.Config {
	var out []effect.Config
	for _, f := range DefaultFormulas() {
		out = append(out, effect.Config{ID: f.Effect, MaxCount: 10})
	}
	return out
}

func newChain(t *testing.T) *chain {
	t.Helper()
	c := &chain{sched: schedule.NewManager()}

	var err error
	c.effects, err = effect.NewManager(c.sched, effectConfigs())
	require.NoError(t, err)
	c.base, err = NewBaseProvider(c.effects, DefaultFormulas())
	require.NoError(t, err)
	c.body = NewBodyProvider(c.base, testBody)
	c.attack = NewAttackProvider(c.body, testAttack)
	return c
}

func (c *chain) apply(id string, count int, amount float64) {
	effect.ApplyItem(c.effects, id, 5*time.Second, count, amount)
}

func TestStat_TextRoundTrip(t *testing.T) {
	for _, s := range All() {
		text, err := s.MarshalText()
		require.NoError(t, err)

		var got Stat
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, s, got)
	}

	var s Stat
	assert.NoError(t, s.UnmarshalText([]byte("maxhealth")))
	assert.Equal(t, MaxHealth, s)
	assert.Error(t, s.UnmarshalText([]byte("Mana")))
	assert.Equal(t, "Stat(200)", Stat(200).String())
	_, err := Stat(200).MarshalText()
	assert.Error(t, err)
}

func TestFormula_Eval(t *testing.T) {
	tests := []struct {
		name   string
		f      Formula
		count  int
		amount float64
		want   float64
	}{
		{"multiplier from amount", Formula{Source: SourceAmount, Kind: KindMultiplier, Rate: 0.1}, 1, 3, 1.3},
		{"multiplier from count", Formula{Source: SourceCount, Kind: KindMultiplier, Rate: 0.1}, 2, 50, 1.2},
		{"bonus from amount", Formula{Source: SourceAmount, Kind: KindBonus, Rate: 1}, 3, 30, 30},
		{"bonus from count", Formula{Source: SourceCount, Kind: KindBonus, Rate: 0.05}, 4, 0, 0.2},
		{"empty multiplier", Formula{Source: SourceCount, Kind: KindMultiplier, Rate: 0.1}, 0, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.f.Eval(tt.count, tt.amount), 1e-9)
		})
	}
}

func TestFormula_TextEnums(t *testing.T) {
	var src Source
	require.NoError(t, src.UnmarshalText([]byte("Amount")))
	assert.Equal(t, SourceAmount, src)
	assert.Error(t, src.UnmarshalText([]byte("level")))

	var k Kind
	require.NoError(t, k.UnmarshalText([]byte("add")))
	assert.Equal(t, KindBonus, k)
	require.NoError(t, k.UnmarshalText([]byte("multiplier")))
	assert.Equal(t, KindMultiplier, k)
	assert.Error(t, k.UnmarshalText([]byte("pow")))

	assert.Equal(t, "amount", SourceAmount.String())
	assert.Equal(t, "bonus", KindBonus.String())
}

func TestBase_HealthMultiplierFromAmount(t *testing.T) {
	c := newChain(t)
	c.apply(EffectMaxHealthUp, 3, 1)

	assert.Equal(t, 1.3, c.base.GetStats(HealthMultiplier))
}

func TestBase_DamageMultiplierFromCount(t *testing.T) {
	c := newChain(t)
	c.apply(EffectAttackDamageUp, 2, 99)

	assert.InDelta(t, 1.2, c.base.GetStats(DamageMultiplier), 1e-9)
}

func TestBase_DefaultsWithoutEffects(t *testing.T) {
	c := newChain(t)

	assert.InDelta(t, 0, c.base.GetStats(HealthBonus), 1e-9)
	assert.InDelta(t, 1, c.base.GetStats(HealthMultiplier), 1e-9)
	assert.InDelta(t, 1, c.base.GetStats(BoostHeartHealing), 1e-9)
	assert.True(t, c.base.Serves(DamageBonus))
	assert.False(t, c.base.Serves(Health))
}

func TestBase_UnknownStatPanics(t *testing.T) {
	c := newChain(t)

	assert.Panics(t, func() { c.base.GetStats(Health) })
	assert.Panics(t, func() { c.attack.GetStats(Stat(200)) })
}

func TestNewBaseProvider_Validation(t *testing.T) {
	sched := schedule.NewManager()
	effects, err := effect.NewManager(sched, []effect.Config{{ID: EffectMaxHealthUp, MaxCount: 1}})
	require.NoError(t, err)

	_, err = NewBaseProvider(effects, []Formula{{Stat: HealthMultiplier, Effect: "Missing"}})
	assert.ErrorIs(t, err, effect.ErrUnknownEffect)

	_, err = NewBaseProvider(effects, []Formula{
		{Stat: HealthMultiplier, Effect: EffectMaxHealthUp},
		{Stat: HealthMultiplier, Effect: EffectMaxHealthUp},
	})
	assert.Error(t, err)

	_, err = NewBaseProvider(effects, []Formula{{Stat: Stat(200), Effect: EffectMaxHealthUp}})
	assert.Error(t, err)
}

func TestBase_NotifiesOnCountChange(t *testing.T) {
	c := newChain(t)
	var rec testutil.Recorder[Stat]
	c.base.AddObserver(Observer{OnStatsChanged: rec.Record})

	c.apply(EffectAttackDamageUp, 1, 1)
	assert.Equal(t, []Stat{DamageMultiplier}, rec.Keys())
	v, _ := rec.Last(DamageMultiplier)
	assert.InDelta(t, 1.1, v, 1e-9)

	rec.Reset()
	testutil.Advance(c.sched, 5*time.Second, tick)
	assert.Equal(t, []Stat{DamageMultiplier}, rec.Keys())
	v, _ = rec.Last(DamageMultiplier)
	assert.InDelta(t, 1, v, 1e-9)
}

func TestBody_Formulas(t *testing.T) {
	c := newChain(t)

	assert.InDelta(t, 100, c.body.GetStats(MaxHealth), 1e-9)
	assert.InDelta(t, 100, c.body.GetStats(Health), 1e-9)
	assert.InDelta(t, 5, c.body.GetStats(MovementSpeed), 1e-9)
	assert.InDelta(t, 10, c.body.GetStats(Defense), 1e-9)
	assert.InDelta(t, 0.1, c.body.GetStats(DodgeRate), 1e-9)

	c.apply(EffectVitality, 1, 20)
	c.apply(EffectMaxHealthUp, 5, 1)
	c.apply(EffectMoveSpeedUp, 2, 1)
	c.apply(EffectDefenseUp, 3, 1)
	c.apply(EffectDodgeUp, 2, 1)

	assert.InDelta(t, 180, c.body.GetStats(MaxHealth), 1e-9)
	assert.InDelta(t, 180, c.body.GetStats(Health), 1e-9)
	assert.InDelta(t, 6, c.body.GetStats(MovementSpeed), 1e-9)
	assert.InDelta(t, 13, c.body.GetStats(Defense), 1e-9)
	assert.InDelta(t, 0.2, c.body.GetStats(DodgeRate), 1e-9)

	assert.InDelta(t, 1.5, c.body.GetStats(HealthMultiplier), 1e-9, "base stats pass through")
}

func TestBody_PercentageHealthRescale(t *testing.T) {
	c := newChain(t)

	c.body.TakeDamage(25)
	assert.InDelta(t, 0.75, c.body.HealthPercentage(), 1e-9)
	assert.InDelta(t, 75, c.body.GetStats(Health), 1e-9)

	c.apply(EffectMaxHealthUp, 1, 10)
	assert.InDelta(t, 200, c.body.GetStats(MaxHealth), 1e-9)
	assert.InDelta(t, 150, c.body.GetStats(Health), 1e-9)
	assert.InDelta(t, 0.75, c.body.HealthPercentage(), 1e-9)

	// Damage is measured against MaxHealth at the moment of the hit.
	c.body.TakeDamage(50)
	assert.InDelta(t, 0.5, c.body.HealthPercentage(), 1e-9)

	testutil.Advance(c.sched, 5*time.Second, tick)
	assert.InDelta(t, 100, c.body.GetStats(MaxHealth), 1e-9)
	assert.InDelta(t, 50, c.body.GetStats(Health), 1e-9)
}

func TestBody_DamageClampsAtZero(t *testing.T) {
	c := newChain(t)
	died := 0
	var hits []float64
	c.body.AddBodyObserver(BodyObserver{
		OnDamageTaken: func(a float64) { hits = append(hits, a) },
		OnDied:        func() { died++ },
	})

	c.body.TakeDamage(500)
	assert.InDelta(t, 0, c.body.HealthPercentage(), 1e-9)
	assert.True(t, c.body.IsDead())
	assert.Equal(t, 1, died)

	c.body.TakeDamage(10)
	assert.Equal(t, 1, died, "death fires once")
	assert.Equal(t, []float64{500, 10}, hits)

	c.body.TakeDamage(0)
	c.body.TakeDamage(-5)
	assert.Len(t, hits, 2)
}

func TestBody_RemoveBodyObserver(t *testing.T) {
	c := newChain(t)
	hits := 0
	h := c.body.AddBodyObserver(BodyObserver{OnDamageTaken: func(float64) { hits++ }})

	c.body.TakeDamage(10)
	require.Equal(t, 1, hits)

	assert.True(t, c.body.RemoveBodyObserver(h))
	assert.False(t, c.body.RemoveBodyObserver(h))

	c.body.TakeDamage(10)
	assert.Equal(t, 1, hits)
}

func TestBody_Heal(t *testing.T) {
	c := newChain(t)
	var rec testutil.Recorder[Stat]
	c.body.AddObserver(Observer{OnStatsChanged: rec.Record})
	var healed []float64
	c.body.AddBodyObserver(BodyObserver{OnHealed: func(a float64) { healed = append(healed, a) }})

	c.body.TakeDamage(60)
	rec.Reset()

	c.body.Heal(10, false)
	assert.InDelta(t, 50, c.body.GetStats(Health), 1e-9)
	assert.Equal(t, []Stat{Health}, rec.Keys())

	c.apply(EffectHeartHealingUp, 2, 1)
	c.body.Heal(10, true)
	assert.InDelta(t, 70, c.body.GetStats(Health), 1e-9, "heart heal doubled by two stacks")

	c.body.Heal(1000, false)
	assert.InDelta(t, 1, c.body.HealthPercentage(), 1e-9)
	assert.InDelta(t, 100, c.body.GetStats(Health), 1e-9)

	assert.Equal(t, []float64{10, 20, 1000}, healed)
}

func TestBody_ZeroHealDispatchesNothing(t *testing.T) {
	c := newChain(t)
	c.body.TakeDamage(10)

	var rec testutil.Recorder[Stat]
	c.body.AddObserver(Observer{OnStatsChanged: rec.Record})
	c.body.Heal(0, false)
	c.body.Heal(0, true)

	assert.Empty(t, rec.Changes)
}

func TestBody_ZeroMaxHealth(t *testing.T) {
	c := newChain(t)
	body := NewBodyProvider(c.base, BodyConfig{})

	body.Heal(10, false)
	assert.InDelta(t, 1, body.HealthPercentage(), 1e-9)

	body.TakeDamage(1)
	assert.True(t, body.IsDead())
}

func TestBody_Restore(t *testing.T) {
	c := newChain(t)
	var rec testutil.Recorder[Stat]
	c.body.AddObserver(Observer{OnStatsChanged: rec.Record})

	c.body.Restore()
	assert.Empty(t, rec.Changes, "already full")

	c.body.TakeDamage(100)
	c.body.Restore()
	assert.False(t, c.body.IsDead())
	v, ok := rec.Last(Health)
	require.True(t, ok)
	assert.InDelta(t, 100, v, 1e-9)
}

func TestBody_DependentNotifications(t *testing.T) {
	c := newChain(t)
	var rec testutil.Recorder[Stat]
	c.body.AddObserver(Observer{OnStatsChanged: rec.Record})

	c.apply(EffectMaxHealthUp, 1, 1)
	assert.Equal(t, []Stat{HealthMultiplier, Health, MaxHealth}, rec.Keys())
	v, _ := rec.Last(MaxHealth)
	assert.InDelta(t, 110, v, 1e-9)

	rec.Reset()
	c.apply(EffectMoveSpeedUp, 1, 1)
	assert.Equal(t, []Stat{MovementSpeedMultiplier, MovementSpeed}, rec.Keys())

	rec.Reset()
	c.apply(EffectAttackDamageUp, 1, 1)
	assert.Equal(t, []Stat{DamageMultiplier}, rec.Keys(), "attack stats are not body dependents")
}

func TestAttack_Formulas(t *testing.T) {
	c := newChain(t)

	assert.InDelta(t, 20, c.attack.GetStats(Damage), 1e-9)
	assert.InDelta(t, 0.05, c.attack.GetStats(CriticalRate), 1e-9)
	assert.InDelta(t, 1.5, c.attack.GetStats(CriticalDamage), 1e-9)
	assert.InDelta(t, 1, c.attack.GetStats(AttackSpeed), 1e-9)

	c.apply(EffectSharpness, 1, 5)
	c.apply(EffectAttackDamageUp, 2, 1)
	c.apply(EffectCriticalRateUp, 3, 1)
	c.apply(EffectCriticalDamageUp, 1, 1)
	c.apply(EffectAttackSpeedUp, 5, 1)

	assert.InDelta(t, 30, c.attack.GetStats(Damage), 1e-9)
	assert.InDelta(t, 0.2, c.attack.GetStats(CriticalRate), 1e-9)
	assert.InDelta(t, 1.6, c.attack.GetStats(CriticalDamage), 1e-9)
	assert.InDelta(t, 1.5, c.attack.GetStats(AttackSpeed), 1e-9)

	attack := NewAttackProvider(c.body, AttackConfig{Damage: 10, DamageMultiplier: 2})
	assert.InDelta(t, 36, attack.GetStats(Damage), 1e-9)
}

func TestAttack_DelegatesBodyStats(t *testing.T) {
	c := newChain(t)
	c.body.TakeDamage(40)

	assert.InDelta(t, 60, c.attack.GetStats(Health), 1e-9)
	assert.InDelta(t, 5, c.attack.GetStats(MovementSpeed), 1e-9)
	assert.InDelta(t, 1, c.attack.GetStats(DamageMultiplier), 1e-9)
}

func TestAttack_Notifications(t *testing.T) {
	c := newChain(t)
	var rec testutil.Recorder[Stat]
	c.attack.AddObserver(Observer{OnStatsChanged: rec.Record})

	c.apply(EffectAttackDamageUp, 1, 1)
	assert.Equal(t, []Stat{DamageMultiplier, Damage}, rec.Keys())
	v, _ := rec.Last(Damage)
	assert.InDelta(t, 22, v, 1e-9)

	rec.Reset()
	c.body.TakeDamage(10)
	assert.Equal(t, []Stat{Health}, rec.Keys(), "body changes reach the top of the chain")

	rec.Reset()
	c.apply(EffectMaxHealthUp, 1, 1)
	assert.Equal(t, []Stat{HealthMultiplier, Health, MaxHealth}, rec.Keys())
}

func TestLayer_Close(t *testing.T) {
	c := newChain(t)
	var rec testutil.Recorder[Stat]
	c.attack.AddObserver(Observer{OnStatsChanged: rec.Record})

	c.attack.Close()
	c.apply(EffectAttackDamageUp, 1, 1)
	assert.Empty(t, rec.Changes)

	var baseRec testutil.Recorder[Stat]
	c.base.AddObserver(Observer{OnStatsChanged: baseRec.Record})
	c.base.Close()
	c.apply(EffectAttackDamageUp, 1, 1)
	assert.Empty(t, baseRec.Changes)
}

func TestBase_EffectsDisposeKeepsValues(t *testing.T) {
	c := newChain(t)
	c.apply(EffectMaxHealthUp, 3, 1)

	var rec testutil.Recorder[Stat]
	c.body.AddObserver(Observer{OnStatsChanged: rec.Record})

	c.effects.Dispose()
	testutil.Advance(c.sched, 10*time.Second, tick)

	assert.Empty(t, rec.Changes)
	assert.Equal(t, 1.3, c.base.GetStats(HealthMultiplier))
	assert.InDelta(t, 130, c.body.GetStats(MaxHealth), 1e-9)
}

func TestSnapshot(t *testing.T) {
	c := newChain(t)

	all := Snapshot(c.attack)
	assert.Len(t, all, len(All()))
	assert.InDelta(t, 100, all[Health], 1e-9)

	some := Snapshot(c.attack, Damage, Defense)
	assert.Len(t, some, 2)
	assert.InDelta(t, 20, some[Damage], 1e-9)
}
