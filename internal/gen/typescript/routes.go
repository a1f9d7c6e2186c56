package typescript

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/koskimas/stonets/internal/model"
)

// generateMethod emits the client method of a route. Routes are parameterized
// by argument, result and error types but `Promise` only takes the result.
// Error types still get their interfaces, they just don't appear here.
func (g *generator) generateMethod(ns *model.Namespace, route *model.Route) error {
	if route.Doc != "" {
		g.emitDocstring(route.Doc)
	}

	methodName := RouteMethodName(ns.Name, route.Name)

	arg := ""
	if !model.IsVoid(route.Arg) {
		ts, err := FormatType(route.Arg)
		if err != nil {
			return errors.Wrapf(err, "argument of route %s/%s", ns.Name, route.Name)
		}

		arg = fmt.Sprintf("arg: %s", ts)
	}

	result, err := FormatType(route.Result)
	if err != nil {
		return errors.Wrapf(err, "result of route %s/%s", ns.Name, route.Name)
	}

	g.w.Emitf("%s(%s): Promise<%s>;", methodName, arg, result)
	return nil
}
