package main

import (
	"strings"

	"github.com/jwebster45206/science-santa/pkg/jolliness"
)

// Santa's face for each jolliness expression.
var portraits = map[jolliness.Expression]string{
	jolliness.ExpressionGrumpy: `
      .-""""-.
     /  ____  \
    |  /    \  |
    | (  >< )  |
    |  \ -- /  |
     \ '----' /
    /'-.____.-'\
   (  ~~~~~~~~  )
    '-.______.-'`,
	jolliness.ExpressionNeutral: `
      .-""""-.
     /  ____  \
    |  /    \  |
    | (  o o )  |
    |  \ -- /  |
     \ '----' /
    /'-.____.-'\
   (  ~~~~~~~~  )
    '-.______.-'`,
	jolliness.ExpressionSlightSmile: `
      .-""""-.
     /  ____  \
    |  /    \  |
    | (  o o ) |
    |  \ \_/ / |
     \ '----' /
    /'-.____.-'\
   (  ~~~~~~~~  )
    '-.______.-'`,
	jolliness.ExpressionHappy: `
      .-""""-.
     /  ____  \  *
    |  /    \  |
    | (  ^ ^ ) |
    |  \ \_/ / |
     \ '----' /
    /'-.____.-'\
   (  ~~~~~~~~  )
    '-.______.-'`,
	jolliness.ExpressionJolly: `
   *  .-""""-.  *
     /  ____  \
  * |  /    \  | *
    | (  ^ ^ ) |
    |  \ \O/ / |
     \ '----' /
    /'-.____.-'\
   ( HO HO HO!  )
    '-.______.-'`,
}

func portraitFor(score int) string {
	return strings.TrimPrefix(portraits[jolliness.ExpressionFor(score)], "\n")
}
