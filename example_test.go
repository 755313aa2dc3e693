package blend_test

import (
	"context"
	"fmt"

	"github.com/aretw0/blend"
	"github.com/aretw0/blend/pkg/adapters/memory"
	"github.com/aretw0/blend/pkg/domain"
	"github.com/aretw0/blend/pkg/formula"
	"github.com/aretw0/blend/pkg/session"
)

func Example() {
	ctx := context.Background()
	app := blend.New(blend.WithRegistry(memory.NewRegistry(
		domain.Identifier{ID: "i1", Name: "Sugar"},
		domain.Identifier{ID: "i2", Name: "Butter"},
	)))
	defer app.Close()

	c, _ := app.Combinations.Add(ctx)
	res, _ := app.SetFormula(ctx, c.ID, "0.5*@sugar + 2*@Butter - @Salt")

	fmt.Println(res.Applied, res.Unresolved)
	fmt.Println(formula.Serialize(res.Terms))
	// Output:
	// true [Salt]
	// 0.5*@Sugar + 2*@Butter
}

func Example_autocomplete() {
	ctx := context.Background()
	app := blend.New(blend.WithRegistry(memory.NewRegistry(
		domain.Identifier{ID: "i1", Name: "Sugar"},
		domain.Identifier{ID: "i2", Name: "Butter"},
		domain.Identifier{ID: "i3", Name: "Salt"},
	)))
	defer app.Close()

	c, _ := app.Combinations.Add(ctx)
	_, _ = app.Sessions.Enter(ctx, c.ID)

	v, _ := app.Sessions.Dispatch(ctx, c.ID, session.TextChange("2*@s", 4))
	for i, s := range v.Suggestions {
		fmt.Println(i, s.Name)
	}

	_, _ = app.Sessions.Dispatch(ctx, c.ID, session.KeyPress(session.KeyDown))
	v, _ = app.Sessions.Dispatch(ctx, c.ID, session.KeyPress(session.KeyEnter))
	fmt.Printf("%q caret=%d\n", v.Buffer, v.Caret)

	res, _ := app.Sessions.Exit(ctx, c.ID)
	fmt.Println(formula.Serialize(res.Terms))
	// Output:
	// 0 Sugar
	// 1 Salt
	// "2*@Salt" caret=7
	// 2*@Salt
}
