package merger

import (
	"fmt"

	f "github.com/multimediallc/complot/pkg/functional"
	"github.com/multimediallc/complot/pkg/interval"
	"github.com/multimediallc/complot/pkg/schedule"
	"github.com/multimediallc/complot/pkg/topology"
)

// Row is a layer node joined with the grid cell it sits in
type Row struct {
	Segment   int
	MD        float64
	TVD       float64
	Diameter  float64
	StartMD   float64
	EndMD     float64
	Cell      schedule.Cell
	CF        float64
	KH        float64
	Thickness float64
}

// Merge places every node in the completion interval containing its MD and attaches the
// connection properties of that cell. Cells without COMPDAT data get the missing value.
func Merge(nodes []topology.Node, completions []schedule.Completion, cells map[schedule.Cell]schedule.CellProps) ([]Row, error) {
	intervals := f.Map(completions, schedule.Completion.Interval)
	rows := make([]Row, 0, len(nodes))
	for _, node := range nodes {
		idx, err := interval.FindContaining(node.MD, intervals)
		if err != nil {
			return nil, fmt.Errorf("segment %d at MD %g: %w", node.Segment, node.MD, err)
		}
		c := completions[idx]
		cell := c.Cell()
		props := cells[cell]
		rows = append(rows, Row{
			Segment:   node.Segment,
			MD:        node.MD,
			TVD:       node.TVD,
			Diameter:  node.Diameter,
			StartMD:   c.StartMD,
			EndMD:     c.EndMD,
			Cell:      cell,
			CF:        props.ResolvedCF(),
			KH:        props.ResolvedKH(),
			Thickness: intervals[idx].Length(),
		})
	}
	return rows, nil
}
