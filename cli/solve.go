package cli

import (
	"encoding/json"
	"io"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/stewart/kinematics/stewart"
)

// sample is one line of stream input.
type sample struct {
	HeadJoints []float64 `json:"head_joints"`
	HeadPose   []float64 `json:"head_pose"`
}

// result is one line of output. Quaternions are [w, x, y, z].
type result struct {
	PassiveJoints []float64          `json:"passive_joints"`
	Named         map[string]float64 `json:"named,omitempty"`
	Quaternions   [][4]float64       `json:"quaternions,omitempty"`
	Error         string             `json:"error,omitempty"`
}

type outputOptions struct {
	named       bool
	quaternions bool
}

func outputOptionsFromContext(c *cli.Context) outputOptions {
	return outputOptions{
		named:       c.Bool(outputFlagNamed),
		quaternions: c.Bool(outputFlagQuaternions),
	}
}

func newResult(angles stewart.PassiveAngles, opts outputOptions, err error) result {
	res := result{PassiveJoints: angles.Slice()}
	if opts.named {
		res.Named = angles.Named()
	}
	if opts.quaternions {
		for _, q := range angles.Quaternions() {
			res.Quaternions = append(res.Quaternions, [4]float64{q.Real, q.Imag, q.Jmag, q.Kmag})
		}
	}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}

func writeResult(w io.Writer, res result) error {
	line, err := json.Marshal(res)
	if err != nil {
		return errors.Wrap(err, "failed to encode result")
	}
	printf(w, "%s", line)
	return nil
}

// SolveAction solves the sample given by --joints and --pose and prints one result line.
func SolveAction(c *cli.Context) error {
	logger := loggerFromContext(c)
	solver := solverFromContext(c)

	joints := c.Float64Slice(solveFlagJoints)
	pose := c.Float64Slice(solveFlagPose)
	angles, err := solver.Solve(joints, pose)
	if err != nil {
		return errors.Wrap(err, "cannot solve passive joints")
	}
	logger.Debugw("solved", "joints", joints)
	if c.Bool(solveFlagTable) {
		printf(c.App.Writer, "%s", angles.String())
		return nil
	}
	return writeResult(c.App.Writer, newResult(angles, outputOptionsFromContext(c), nil))
}

// SchemaAction prints the JSON schemas of the stream sample and result lines.
func SchemaAction(c *cli.Context) error {
	schemas := map[string]*jsonschema.Schema{
		"sample": jsonschema.Reflect(&sample{}),
		"result": jsonschema.Reflect(&result{}),
	}
	out, err := json.MarshalIndent(schemas, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode schemas")
	}
	printf(c.App.Writer, "%s", out)
	return nil
}
