package ast

import "github.com/sharpts/sharpts/internal/token"

var token0 = token.Position{Line: 1, Column: 1}
