/*
Package blend is the linear-combination engine of a product-formulation planner.

A combination is a weighted sum of named inputs, such as

	0.5*@Sugar + 2*@Butter - @Salt

It can be edited in two ways. In builder mode the host calls structured
operations (add a term, remove a term, set a coefficient). In direct-entry mode
the user types the formula as text. "@" opens an autocomplete list of registry
entries and leaving the mode parses the text back into terms.

# Architecture

The packages follow a hexagonal layout:

  - pkg/formula: Serialize and Parse, the canonical text notation.
  - pkg/mention: caret-anchored trigger detection, suggestions, selection and insertion.
  - pkg/combination: the combination operations over a ports.CombinationStore.
  - pkg/session: the edit-session store keyed by combination ID, driven by UI events.
  - pkg/adapters: memory, file and Redis stores, file registry, HTTP API.

# Usage

	app := blend.New(
		blend.WithRegistry(memory.NewRegistry(
			domain.Identifier{ID: "i1", Name: "Sugar"},
			domain.Identifier{ID: "i2", Name: "Butter"},
		)),
	)
	defer app.Close()

	c, _ := app.Combinations.Add(ctx)
	res, _ := app.SetFormula(ctx, c.ID, "0.5*@Sugar + 2*@Butter")
	fmt.Println(res.Applied, formula.Serialize(res.Terms))

Hosts with a text widget forward its events to app.Sessions.Dispatch and render
the returned session.View.
*/
package blend
