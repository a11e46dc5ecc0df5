package cli

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/stewart/kinematics/stewart"
	"go.viam.com/stewart/logging"
)

// longest accepted sample line.
const maxSampleLineBytes = 1 << 20

// StreamAction reads newline-delimited JSON samples and writes one result line per sample.
func StreamAction(c *cli.Context) (err error) {
	in := io.Reader(os.Stdin)
	if c.App.Reader != nil {
		in = c.App.Reader
	}
	if path := c.String(streamFlagInput); path != "" {
		//nolint:gosec
		f, openErr := os.Open(path)
		if openErr != nil {
			return errors.Wrapf(openErr, "cannot open input %q", path)
		}
		defer func() {
			err = multierr.Combine(err, f.Close())
		}()
		in = f
	}

	out := c.App.Writer
	if path := c.String(streamFlagOutput); path != "" {
		//nolint:gosec
		f, createErr := os.Create(path)
		if createErr != nil {
			return errors.Wrapf(createErr, "cannot create output %q", path)
		}
		defer func() {
			err = multierr.Combine(err, f.Close())
		}()
		out = f
	}

	return streamSamples(in, out, solverFromContext(c), loggerFromContext(c),
		outputOptionsFromContext(c), c.Bool(streamFlagStrict))
}

func streamSamples(
	in io.Reader,
	out io.Writer,
	solver *stewart.Solver,
	logger logging.Logger,
	opts outputOptions,
	strict bool,
) error {
	w := bufio.NewWriter(out)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 4096), maxSampleLineBytes)

	var lineNum, solved, failed int
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		angles, err := solveLine(solver, line)
		if err != nil {
			if strict {
				return multierr.Combine(errors.Wrapf(err, "line %d", lineNum), w.Flush())
			}
			logger.Warnw("cannot solve sample", "line", lineNum, "error", err)
			failed++
		} else {
			solved++
		}
		if err := writeResult(w, newResult(angles, opts, err)); err != nil {
			return multierr.Combine(err, w.Flush())
		}
	}
	if err := scanner.Err(); err != nil {
		return multierr.Combine(errors.Wrap(err, "failed to read samples"), w.Flush())
	}
	logger.Debugw("stream finished", "solved", solved, "failed", failed)
	return w.Flush()
}

func solveLine(solver *stewart.Solver, line string) (stewart.PassiveAngles, error) {
	var s sample
	if err := json.Unmarshal([]byte(line), &s); err != nil {
		return stewart.PassiveAngles{}, errors.Wrap(err, "malformed sample")
	}
	return solver.Solve(s.HeadJoints, s.HeadPose)
}
