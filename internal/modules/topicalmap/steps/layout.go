package steps

import "github.com/Berguit/topical-map-app/internal/domain"

type rowLayout struct {
	baseY   float64
	perRow  int
	spacing float64
}

var layouts = map[domain.NodeType]rowLayout{
	domain.NodePillar:     {baseY: 0, perRow: 2, spacing: 400},
	domain.NodeCluster:    {baseY: 200, perRow: 4, spacing: 300},
	domain.NodeSupporting: {baseY: 400, perRow: 6, spacing: 250},
}

const (
	layoutMarginX = 100
	layoutRowGap  = 150
)

// GetPosition places the index-th node of a type on its band of the canvas.
// Unknown types use the supporting band.
func GetPosition(t domain.NodeType, index int) domain.Position {
	l, ok := layouts[t]
	if !ok {
		l = layouts[domain.NodeSupporting]
	}
	if index < 0 {
		index = 0
	}
	return domain.Position{
		X: float64(index%l.perRow)*l.spacing + layoutMarginX,
		Y: l.baseY + float64(index/l.perRow)*layoutRowGap,
	}
}
