package linker

import (
	"context"

	"github.com/tetratelabs/wazero"

	"github.com/qir-alliance/qirlib/errors"
)

// verifyOutput compiles the linked module with an ephemeral wazero runtime,
// rejecting output that fails wasm validation. Imports are not resolved;
// this is a structural check, not instantiation.
func verifyOutput(data []byte) error {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	compiled, err := rt.CompileModule(ctx, data)
	if err != nil {
		return errors.Wrap(errors.PhaseVerify, errors.KindInvalidData, err,
			"linked module failed validation")
	}
	return compiled.Close(ctx)
}
