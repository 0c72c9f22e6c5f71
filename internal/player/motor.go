package player

import (
	"math"

	"github.com/annel0/fps-sim/internal/vec"
)

// Intent - намерение движения, уже снятое с устройства ввода
type Intent struct {
	Forward float64 `json:"forward"` // -1..1
	Strafe  float64 `json:"strafe"`  // -1..1
	Run     bool    `json:"run"`
	Crouch  bool    `json:"crouch"`
	Yaw     float64 `json:"yaw"`   // градусы, 0 - вдоль +Z
	Pitch   float64 `json:"pitch"` // градусы, вверх положительный
}

// MotorConfig - параметры передвижения игрока
type MotorConfig struct {
	MoveSpeed        float64 `yaml:"move_speed"`
	InertiaFactor    float64 `yaml:"inertia_factor"`
	RunMultiplier    float64 `yaml:"run_multiplier"`
	CrouchMultiplier float64 `yaml:"crouch_multiplier"`
	FootstepInterval float64 `yaml:"footstep_interval"`
	FootstepClip     string  `yaml:"footstep_clip"`
}

// DefaultMotorConfig возвращает стандартные параметры передвижения
func DefaultMotorConfig() MotorConfig {
	return MotorConfig{
		MoveSpeed:        5,
		InertiaFactor:    5,
		RunMultiplier:    1.5,
		CrouchMultiplier: 0.5,
		FootstepInterval: 0.5,
		FootstepClip:     "footstep",
	}
}

// SoundPlayer проигрывает звук без ожидания результата
type SoundPlayer interface {
	PlayOneShot(source uint64, clip string)
}

// Motor перемещает игрока по намерению с инерцией. Выключенный мотор
// игнорирует намерения и стоит на месте.
type Motor struct {
	owner   uint64
	cfg     MotorConfig
	audio   SoundPlayer
	enabled bool

	intent   Intent
	velocity vec.Vec3
	footstep float64
}

// NewMotor создаёт включённый мотор
func NewMotor(owner uint64, cfg MotorConfig, audio SoundPlayer) *Motor {
	return &Motor{owner: owner, cfg: cfg, audio: audio, enabled: true}
}

func (m *Motor) Enabled() bool      { return m.enabled }
func (m *Motor) Velocity() vec.Vec3 { return m.velocity }
func (m *Motor) Intent() Intent     { return m.intent }

// Enable включает обработку намерений
func (m *Motor) Enable() { m.enabled = true }

// Disable выключает мотор и гасит скорость
func (m *Motor) Disable() {
	m.enabled = false
	m.velocity = vec.Zero
	m.intent = Intent{Yaw: m.intent.Yaw, Pitch: m.intent.Pitch}
}

// SetIntent задаёт намерение. Для выключенного мотора ничего не делает.
func (m *Motor) SetIntent(in Intent) {
	if !m.enabled {
		return
	}
	in.Forward = clampAxis(in.Forward)
	in.Strafe = clampAxis(in.Strafe)
	in.Pitch = math.Max(-89, math.Min(89, in.Pitch))
	m.intent = in
}

// LookForward возвращает направление взгляда с учётом наклона
func (m *Motor) LookForward() vec.Vec3 {
	yaw := m.intent.Yaw * math.Pi / 180
	pitch := m.intent.Pitch * math.Pi / 180
	return vec.Vec3{
		X: math.Sin(yaw) * math.Cos(pitch),
		Y: math.Sin(pitch),
		Z: math.Cos(yaw) * math.Cos(pitch),
	}
}

// Step возвращает новую позицию после dt секунд движения
func (m *Motor) Step(pos vec.Vec3, dt float64) vec.Vec3 {
	if !m.enabled || dt <= 0 {
		return pos
	}

	speed := m.cfg.MoveSpeed
	if m.intent.Crouch {
		speed *= m.cfg.CrouchMultiplier
	} else if m.intent.Run {
		speed *= m.cfg.RunMultiplier
	}

	yaw := m.intent.Yaw * math.Pi / 180
	forward := vec.Vec3{X: math.Sin(yaw), Z: math.Cos(yaw)}
	right := vec.Vec3{X: math.Cos(yaw), Z: -math.Sin(yaw)}
	dir := forward.Mul(m.intent.Forward).Add(right.Mul(m.intent.Strafe)).Normalized()

	m.velocity = m.velocity.Lerp(dir.Mul(speed), m.cfg.InertiaFactor*dt)

	if !dir.IsZero() {
		m.footstep += dt
		if m.footstep >= m.cfg.FootstepInterval {
			m.footstep = 0
			if m.audio != nil && m.cfg.FootstepClip != "" {
				m.audio.PlayOneShot(m.owner, m.cfg.FootstepClip)
			}
		}
	}

	return pos.Add(m.velocity.Mul(dt))
}

func clampAxis(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
