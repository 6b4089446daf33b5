package tree

import (
	"math"
	"reflect"

	"github.com/matzehuels/syntree/pkg/config"
	"github.com/matzehuels/syntree/pkg/ident"
)

// NodeConfig is the construction input of a node.
type NodeConfig struct {
	// ID pins the node's identity. Zero lets the tree allocate one.
	ID    ident.ID `config:"id"`
	X     float64  `config:"x"`
	Y     float64  `config:"y"`
	Label string   `config:"label"`
	// Real creates the node as already saved.
	Real bool `config:"real"`
}

// NodeSchema validates the property bag accepted by Tree.NewNode.
var NodeSchema = config.Schema{
	Fields: []config.Field{
		config.Optional("id", idType),
		config.Default("x", 0.0, config.Number()),
		config.Default("y", 0.0, config.Number()),
		config.Default("label", "", config.String()),
		config.Default("real", false, config.Bool()),
	},
}

// idType matches positive whole numbers.
var idType = config.Custom("id", func(v any) bool {
	if !config.Number().Match(v) {
		return false
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.CanInt():
		return rv.Int() > 0
	case rv.CanUint():
		return rv.Uint() > 0
	default:
		f := rv.Float()
		return f >= 1 && f <= 1<<53 && f == math.Trunc(f)
	}
})
