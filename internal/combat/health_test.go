package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dieCounter struct{ calls int }

func (d *dieCounter) Die() { d.calls++ }

type respawnCounter struct{ calls int }

func (r *respawnCounter) OnPlayerDeath() { r.calls++ }

func TestHealth_AttackScenario(t *testing.T) {
	owner := &dieCounter{}
	h := NewHealth(HealthConfig{Name: "enemy-1", Tag: TagEnemy, MaxHP: 100, Owner: owner})

	died := 0
	h.Died.Connect(func() { died++ })

	h.Attack(40)
	assert.Equal(t, 60, h.Current())
	assert.InDelta(t, 0.6, h.Rate(), 1e-9)

	h.Attack(70)
	assert.Equal(t, 0, h.Current(), "HP не уходит ниже нуля")
	assert.Equal(t, 1, died)
	assert.Equal(t, 1, owner.calls, "контроллер вызывается напрямую")

	h.Attack(10)
	assert.Equal(t, 0, h.Current())
	assert.Equal(t, 1, died, "сигнал смерти не повторяется")
	assert.Equal(t, 1, owner.calls)
}

func TestHealth_SignalsOrder(t *testing.T) {
	h := NewHealth(HealthConfig{Name: "dummy", MaxHP: 50, Owner: &dieCounter{}})
	var order []string
	h.Changed.Connect(func() { order = append(order, "changed") })
	h.Attacked.Connect(func() { order = append(order, "attacked") })
	h.Healed.Connect(func() { order = append(order, "healed") })

	h.Attack(0)
	h.Heal(5)
	assert.Equal(t, []string{"changed", "attacked", "changed", "healed"}, order)

	h.Attack(-10)
	assert.Equal(t, 50, h.Current(), "отрицательный урон не лечит")
}

func TestHealth_HealClamp(t *testing.T) {
	h := NewHealth(HealthConfig{Name: "dummy", MaxHP: 100, CurrentHP: 30})
	for _, amount := range []int{0, 10, 50, 1000} {
		h.Heal(amount)
		assert.LessOrEqual(t, h.Current(), h.Max())
	}
	assert.Equal(t, 100, h.Current())
}

func TestHealth_AdministrativeSettersDoNotKill(t *testing.T) {
	owner := &dieCounter{}
	h := NewHealth(HealthConfig{Name: "dummy", MaxHP: 100, Owner: owner})
	changed := 0
	h.Changed.Connect(func() { changed++ })

	h.SetHP(0)
	assert.Equal(t, 0, h.Current())
	assert.Equal(t, 0, owner.calls, "SetHP не рассылает смерть")

	h.RestoreFull()
	assert.Equal(t, 100, h.Current())

	h.SetHP(500)
	assert.Equal(t, 100, h.Current())
	assert.Equal(t, 3, changed)
}

func TestHealth_PlayerDeathRoutesToRespawn(t *testing.T) {
	handler := &respawnCounter{}
	h := NewHealth(HealthConfig{Name: "player", Tag: TagPlayer, MaxHP: 100, PlayerHandler: handler})

	h.Attack(100)
	assert.Equal(t, 1, handler.calls)

	h.RestoreFull()
	h.Attack(150)
	assert.Equal(t, 2, handler.calls, "после возрождения игрок может погибнуть снова")
}

func TestHealth_AutoConnect(t *testing.T) {
	t.Run("связывает найденный контроллер один раз", func(t *testing.T) {
		h := NewHealth(HealthConfig{Name: "enemy", MaxHP: 10})
		owner := &dieCounter{}
		lookups := 0
		locate := func() Dier {
			lookups++
			return owner
		}

		h.AutoConnect(locate)
		h.AutoConnect(locate)
		require.Equal(t, 1, lookups)
		assert.Equal(t, 1, h.Died.Len())

		h.Attack(10)
		// Сигнал и прямой вызов доставляют смерть дважды, Die идемпотентен у поведения
		assert.Equal(t, 2, owner.calls)
	})

	t.Run("не трогает явную подписку", func(t *testing.T) {
		h := NewHealth(HealthConfig{Name: "enemy", MaxHP: 10})
		h.Died.Connect(func() {})
		called := false
		h.AutoConnect(func() Dier {
			called = true
			return &dieCounter{}
		})
		assert.False(t, called)
		assert.Equal(t, 1, h.Died.Len())
	})

	t.Run("контроллер не найден", func(t *testing.T) {
		h := NewHealth(HealthConfig{Name: "enemy", MaxHP: 10})
		h.AutoConnect(func() Dier { return nil })
		assert.NotPanics(t, func() { h.Attack(10) })
		assert.True(t, h.Dead())
	})
}

func TestSignal_Disconnect(t *testing.T) {
	var s Signal
	calls := 0
	c := s.Connect(func() { calls++ })
	s.Connect(func() { calls += 10 })

	s.Emit()
	c.Disconnect()
	c.Disconnect()
	s.Emit()

	assert.Equal(t, 21, calls)
	assert.Equal(t, 1, s.Len())
}
