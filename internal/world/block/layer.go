package block

import "fmt"

// Layer определяет слой блока внутри чанка.
//
// 0 – LayerForeground: твёрдые блоки, участвуют в физике и рейкастах;
// 1 – LayerBackground: декоративная стена позади.
type Layer uint8

const (
	LayerForeground Layer = iota
	LayerBackground

	LayerCount // всегда последний: количество слоёв
)

// Flip меняет слой на противоположный (для инструмента установки)
func (l Layer) Flip() Layer {
	if l == LayerForeground {
		return LayerBackground
	}
	return LayerForeground
}

// IsValid проверяет, что слой существует
func (l Layer) IsValid() bool {
	return l < LayerCount
}

// String возвращает имя слоя
func (l Layer) String() string {
	switch l {
	case LayerForeground:
		return "foreground"
	case LayerBackground:
		return "background"
	default:
		return fmt.Sprintf("Layer(%d)", uint8(l))
	}
}

// ParseLayer разбирает имя слоя ("foreground"/"fg", "background"/"bg")
func ParseLayer(s string) (Layer, error) {
	switch s {
	case "", "foreground", "fg":
		return LayerForeground, nil
	case "background", "bg":
		return LayerBackground, nil
	default:
		return 0, fmt.Errorf("неизвестный слой %q", s)
	}
}
