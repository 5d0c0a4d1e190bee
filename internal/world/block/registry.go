package block

import "fmt"

// TileSize размер одного блока в мировых единицах (пикселях)
const TileSize = 32

// BlockID представляет идентификатор блока
type BlockID uint16

// Константы ID блоков. Порядок совпадает с порядком тайлов в атласе
// (тайл атласа = ID-1), поэтому новые блоки добавляются только в конец.
const (
	AirBlockID   BlockID = iota // 0 - пустота
	GrassBlockID                // 1 - поверхность
	DirtBlockID                 // 2 - земля
	StoneBlockID                // 3 - камень

	blockCount // всегда последний: количество известных ID
)

// Properties описывает статические свойства типа блока
type Properties struct {
	Name  string
	Solid bool
}

var registry = [blockCount]Properties{
	AirBlockID:   {Name: "Air", Solid: false},
	GrassBlockID: {Name: "Grass", Solid: true},
	DirtBlockID:  {Name: "Dirt", Solid: true},
	StoneBlockID: {Name: "Stone", Solid: true},
}

// Get возвращает свойства блока по ID
func Get(id BlockID) (Properties, bool) {
	if !IsValidBlockID(id) {
		return Properties{}, false
	}
	return registry[id], true
}

// IsValidBlockID проверяет, является ли ID допустимым идентификатором блока
func IsValidBlockID(id BlockID) bool {
	return id < blockCount
}

// IsAir возвращает true для пустого блока
func (id BlockID) IsAir() bool {
	return id == AirBlockID
}

// IsSolid возвращает true, если блок участвует в коллизиях.
// Неизвестные ID считаются твёрдыми.
func (id BlockID) IsSolid() bool {
	props, ok := Get(id)
	if !ok {
		return true
	}
	return props.Solid
}

// AtlasIndex возвращает индекс тайла в текстурном атласе.
// Для воздуха тайла нет: возвращается (0, false).
func (id BlockID) AtlasIndex() (int, bool) {
	if id.IsAir() {
		return 0, false
	}
	return int(id) - 1, true
}

// String возвращает имя блока
func (id BlockID) String() string {
	if props, ok := Get(id); ok {
		return props.Name
	}
	return fmt.Sprintf("Block(%d)", uint16(id))
}
