package gate

import (
	"testing"

	"github.com/annel0/fps-sim/internal/tasks"
	"github.com/annel0/fps-sim/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sceneRecorder struct{ scenes []string }

func (s *sceneRecorder) LoadScene(name string) { s.scenes = append(s.scenes, name) }

func TestKeyManager_ThresholdFiresOnce(t *testing.T) {
	door := NewDoor(DefaultDoorConfig(), DoorDeps{ID: 100})
	km := NewKeyManager(5, door)
	collected := 0
	km.AllCollected.Connect(func() { collected++ })

	for i := 0; i < 4; i++ {
		assert.True(t, km.AddKey())
	}
	assert.Equal(t, 4, km.KeyCount())
	assert.Equal(t, 0, collected)
	assert.False(t, door.IsOpen(), "четырёх ключей недостаточно")

	assert.True(t, km.AddKey())
	assert.Equal(t, 1, collected)
	assert.True(t, door.IsOpen())

	assert.False(t, km.AddKey())
	assert.False(t, km.AddKey())
	assert.Equal(t, 5, km.KeyCount(), "после порога ключи не считаются")
	assert.Equal(t, 1, collected)
}

func TestKeyManager_Reset(t *testing.T) {
	km := NewKeyManager(2, nil)
	km.AddKey()
	km.AddKey()
	require.True(t, km.Complete())

	km.ResetKeys()
	assert.Equal(t, 0, km.KeyCount())
	assert.False(t, km.Complete())
	assert.True(t, km.AddKey())
}

func TestDoor_OpenAnimation(t *testing.T) {
	cfg := DefaultDoorConfig()
	cfg.Position = vec.Vec3{X: 3}
	d := NewDoor(cfg, DoorDeps{ID: 100})
	opened := 0
	d.Opened.Connect(func() { opened++ })

	d.Open()
	d.Open()
	assert.Equal(t, 1, opened, "повторное открытие игнорируется")
	require.True(t, d.Moving())

	// Смещение 5 при скорости 2: 2.5 с
	d.Update(1.25)
	assert.InDelta(t, 2.5, d.Position().Y, 1e-9)
	d.Update(1.5)
	assert.False(t, d.Moving())
	assert.Equal(t, vec.Vec3{X: 3, Y: 5}, d.Position())
}

func TestDoor_PlayerEnterLoadsSceneOnce(t *testing.T) {
	sched := tasks.NewScheduler()
	loader := &sceneRecorder{}
	cfg := DefaultDoorConfig()
	cfg.NextScene = "level-2"
	d := NewDoor(cfg, DoorDeps{ID: 100, Scheduler: sched, Loader: loader})

	d.OnPlayerEnter()
	assert.False(t, d.Loading(), "закрытая дверь не пускает")

	d.Open()
	d.OnPlayerEnter()
	assert.False(t, d.Loading(), "во время анимации вход не срабатывает")

	d.Update(3)
	d.OnPlayerEnter()
	d.OnPlayerEnter()
	require.True(t, d.Loading())

	sched.Advance(0.5)
	assert.Empty(t, loader.scenes)
	sched.Advance(0.5)
	assert.Equal(t, []string{"level-2"}, loader.scenes)
}

func TestDoor_NoNextScene(t *testing.T) {
	d := NewDoor(DefaultDoorConfig(), DoorDeps{ID: 100})
	entered := 0
	d.Entered.Connect(func() { entered++ })
	d.Open()
	d.Update(10)
	d.OnPlayerEnter()
	assert.Equal(t, 1, entered)
	assert.False(t, d.Loading())
}
