package entity

import (
	"math"

	"github.com/annel0/tilecraft/internal/physics"
	"github.com/annel0/tilecraft/internal/vec"
	"github.com/annel0/tilecraft/internal/world/block"
)

// Отступ от положительных граней блока после коррекции,
// иначе угол оказывается ровно на границе и попадает в блок.
const collisionSkin = 1e-4

// PhysicsConfig параметры движения игрока в мировых единицах
type PhysicsConfig struct {
	Gravity          float64 // Ускорение свободного падения, единиц/с²
	TerminalVelocity float64 // Максимальная скорость падения (положительное число)
	MoveSpeed        float64 // Горизонтальная скорость
	JumpSpeed        float64 // Начальная вертикальная скорость прыжка
	NoclipSpeed      float64 // Скорость свободного полёта
}

// DefaultPhysicsConfig возвращает параметры по умолчанию
func DefaultPhysicsConfig() PhysicsConfig {
	return PhysicsConfig{
		Gravity:          30 * block.TileSize,
		TerminalVelocity: 20 * block.TileSize,
		MoveSpeed:        5 * block.TileSize,
		JumpSpeed:        11 * block.TileSize,
		NoclipSpeed:      10 * block.TileSize,
	}
}

// Intent состояние управления на один кадр
type Intent struct {
	Left, Right bool
	Up, Down    bool
	Jump        bool
}

// horizontal возвращает направление по X: -1, 0 или 1
func (i Intent) horizontal() float64 {
	switch {
	case i.Right && !i.Left:
		return 1
	case i.Left && !i.Right:
		return -1
	default:
		return 0
	}
}

func (i Intent) vertical() float64 {
	switch {
	case i.Up && !i.Down:
		return 1
	case i.Down && !i.Up:
		return -1
	default:
		return 0
	}
}

// PlayerState снимок состояния игрока
type PlayerState struct {
	Position  vec.Vec2Float `json:"position"`
	Velocity  vec.Vec2Float `json:"velocity"`
	Floored   bool          `json:"floored"`
	Noclip    bool          `json:"noclip"`
	Direction int           `json:"direction"`
	Rotation  float64       `json:"rotation"`
}

// Player игрок: хитбокс, скорость и режим движения
type Player struct {
	position  vec.Vec2Float
	velocity  vec.Vec2Float
	halfSize  vec.Vec2Float
	floored   bool
	direction int
	noclip    bool
	rotation  float64

	cfg PhysicsConfig
}

// NewPlayer создаёт игрока с центром в position
func NewPlayer(position vec.Vec2Float, cfg PhysicsConfig) *Player {
	half := (block.TileSize - 8.0) / 2
	return &Player{
		position: position,
		halfSize: vec.Vec2Float{X: half, Y: half},
		cfg:      cfg,
	}
}

// Position возвращает центр игрока
func (p *Player) Position() vec.Vec2Float { return p.position }

// Velocity возвращает скорость игрока
func (p *Player) Velocity() vec.Vec2Float { return p.velocity }

// Floored сообщает, что в этом кадре игрок стоит на земле
func (p *Player) Floored() bool { return p.floored }

// Noclip сообщает, включён ли свободный полёт
func (p *Player) Noclip() bool { return p.noclip }

// Direction возвращает направление взгляда: -1, 0 или 1
func (p *Player) Direction() int { return p.direction }

// Rotation возвращает угол поворота спрайта
func (p *Player) Rotation() float64 { return p.rotation }

// Bounds возвращает хитбокс игрока
func (p *Player) Bounds() physics.AxisAlignedRectangle {
	return physics.NewAxisAlignedRectangle(p.position, p.halfSize.Mul(2))
}

// Snapshot возвращает копию состояния
func (p *Player) Snapshot() PlayerState {
	return PlayerState{
		Position:  p.position,
		Velocity:  p.velocity,
		Floored:   p.floored,
		Noclip:    p.noclip,
		Direction: p.direction,
		Rotation:  p.rotation,
	}
}

// Teleport переносит игрока и обнуляет скорость
func (p *Player) Teleport(position vec.Vec2Float) {
	p.position = position
	p.velocity = vec.Vec2Float{}
	p.floored = false
}

// ToggleNoclip переключает свободный полёт и сбрасывает флаг опоры.
// При выходе из полёта скорость обнуляется.
func (p *Player) ToggleNoclip() {
	p.noclip = !p.noclip
	p.floored = false
	if !p.noclip {
		p.velocity = vec.Vec2Float{}
	}
}

// Input применяет управление к скорости
func (p *Player) Input(intent Intent) {
	dx := intent.horizontal()
	p.direction = int(dx)

	if p.noclip {
		p.velocity.X = dx * p.cfg.NoclipSpeed
		p.velocity.Y = intent.vertical() * p.cfg.NoclipSpeed
		return
	}

	p.velocity.X = dx * p.cfg.MoveSpeed
	if intent.Jump && p.floored {
		p.velocity.Y = p.cfg.JumpSpeed
	}
}

// Update продвигает игрока на один кадр
func (p *Player) Update(blocks physics.BlockReader, frameTime float64) {
	p.floored = false

	if p.noclip {
		p.position = p.position.Add(p.velocity.Mul(frameTime))
		p.roll(frameTime)
		return
	}

	p.velocity.Y -= p.cfg.Gravity * frameTime
	if p.velocity.Y < -p.cfg.TerminalVelocity {
		p.velocity.Y = -p.cfg.TerminalVelocity
	}

	// Углы обрабатываются последовательно: каждый видит коррекцию предыдущих
	for _, probe := range physics.CornerProbes(p.halfSize) {
		p.resolveCorner(blocks, probe, frameTime)
	}

	p.position = p.position.Add(p.velocity.Mul(frameTime))
	p.roll(frameTime)
}

// resolveCorner проверяет, попадёт ли угол в твёрдый блок переднего слоя
// за полный кадр, и гасит скорость по оси с меньшим перекрытием (при равенстве по X).
func (p *Player) resolveCorner(blocks physics.BlockReader, probe physics.CornerProbe, frameTime float64) {
	corner := p.position.Add(probe.Offset)
	target := physics.WorldToBlock(corner.Add(p.velocity.Mul(frameTime)))
	if !blocks.GetBlock(target, block.LayerForeground).IsSolid() {
		return
	}

	overlap := vec.Vec2Float{
		X: physics.BlockBoundary(target.X, probe.AddX) - corner.X,
		Y: physics.BlockBoundary(target.Y, probe.AddY) - corner.Y,
	}
	if !probe.AddX {
		overlap.X -= collisionSkin
	}
	if !probe.AddY {
		overlap.Y -= collisionSkin
	}

	if math.Abs(overlap.X) <= math.Abs(overlap.Y) {
		p.velocity.X = 0
		p.position.X += overlap.X
		return
	}

	p.velocity.Y = 0
	p.position.Y += overlap.Y
	if probe.AddY {
		p.floored = true
	}
}

// roll вращает спрайт как катящееся колесо
func (p *Player) roll(frameTime float64) {
	if p.halfSize.X == 0 {
		return
	}
	p.rotation -= p.velocity.X * frameTime / p.halfSize.X
	p.rotation = math.Mod(p.rotation, 2*math.Pi)
}
