package world

import (
	"math"
	"math/rand"

	"github.com/annel0/fps-sim/internal/physics"
	"github.com/annel0/fps-sim/internal/pickup"
	"github.com/annel0/fps-sim/internal/util"
	"github.com/annel0/fps-sim/internal/vec"
)

// Пороги шума для раскладки
const (
	obstacleNoise = 0.68 // Выше - укрытие
	cellSize      = 4.0
	spawnClear    = 6.0  // Радиус без укрытий вокруг точки появления игрока
	enemyMinDist  = 12.0 // Враги не появляются ближе к игроку
)

// ArenaLayout - раскладка арены: точки появления и укрытия
type ArenaLayout struct {
	Seed        int64          `json:"seed"`
	Size        float64        `json:"size"`
	PlayerSpawn vec.Vec3       `json:"player_spawn"`
	Enemies     []vec.Vec3     `json:"enemies"`
	Keys        []vec.Vec3     `json:"keys"`
	Ammo        []vec.Vec3     `json:"ammo"`
	Health      []vec.Vec3     `json:"health"`
	Obstacles   []physics.AABB `json:"obstacles"`
	Door        vec.Vec3       `json:"door"`
}

// GenerateArena строит раскладку по шуму Перлина. Один и тот же сид даёт одну и ту же арену.
func GenerateArena(seed int64, size float64, enemies, keys int) ArenaLayout {
	if size < 4*cellSize {
		size = 4 * cellSize
	}
	noise := util.NewNoise(seed, 0.15)
	rng := rand.New(rand.NewSource(seed))

	half := size / 2
	layout := ArenaLayout{
		Seed:        seed,
		Size:        size,
		PlayerSpawn: vec.Vec3{X: 0, Z: -half + cellSize},
		Door:        vec.Vec3{X: 0, Z: half - cellSize/2},
	}

	var free []vec.Vec3
	n := int(size / cellSize)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			c := vec.Vec3{
				X: -half + cellSize*(float64(i)+0.5),
				Z: -half + cellSize*(float64(j)+0.5),
			}
			nearSpawn := c.DistanceTo(layout.PlayerSpawn) < spawnClear
			nearDoor := c.DistanceTo(layout.Door) < spawnClear
			if !nearSpawn && !nearDoor && noise.At(c.X, c.Z) > obstacleNoise {
				box := physics.NewBoxCollider(cellSize*0.35, 2, cellSize*0.35)
				layout.Obstacles = append(layout.Obstacles, box.AABB(c))
				continue
			}
			if !nearSpawn {
				free = append(free, c)
			}
		}
	}

	rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })

	take := func(count int, ok func(vec.Vec3) bool) []vec.Vec3 {
		var out []vec.Vec3
		rest := free[:0]
		for _, c := range free {
			if len(out) < count && ok(c) {
				out = append(out, c)
				continue
			}
			rest = append(rest, c)
		}
		free = rest
		return out
	}
	anywhere := func(vec.Vec3) bool { return true }

	layout.Enemies = take(enemies, func(c vec.Vec3) bool {
		return c.DistanceTo(layout.PlayerSpawn) >= enemyMinDist
	})
	layout.Keys = take(keys, anywhere)
	extra := int(math.Max(1, float64(enemies)/2))
	layout.Ammo = take(extra, anywhere)
	layout.Health = take(extra, anywhere)
	return layout
}

// Populate создаёт игрока, врагов, предметы и укрытия по раскладке
func (w *World) Populate(layout ArenaLayout) {
	for _, box := range layout.Obstacles {
		w.AddObstacle(box)
	}
	w.SpawnPlayer(layout.PlayerSpawn)
	for _, at := range layout.Enemies {
		w.SpawnEnemy("", at)
	}
	for _, at := range layout.Keys {
		w.SpawnPickup(pickup.KindKey, at)
	}
	for _, at := range layout.Ammo {
		w.SpawnPickup(pickup.KindAmmo, at)
	}
	for _, at := range layout.Health {
		w.SpawnPickup(pickup.KindHealth, at)
	}
	w.log.Info("🗺️ арена заполнена: врагов %d, ключей %d, укрытий %d",
		len(layout.Enemies), len(layout.Keys), len(layout.Obstacles))
	w.publish()
}
