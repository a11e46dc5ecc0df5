// Package cli contains the passivejoints command line interface.
package cli

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zapcore"

	"go.viam.com/stewart/kinematics/stewart"
	"go.viam.com/stewart/logging"
)

const (
	// Flags.
	generalFlagDebug      = "debug"
	generalFlagLogFile    = "log-file"
	solveFlagTable        = "table"
	solveFlagJoints       = "joints"
	solveFlagPose         = "pose"
	outputFlagNamed       = "named"
	outputFlagQuaternions = "quaternions"
	streamFlagInput       = "input"
	streamFlagOutput      = "output"
	streamFlagStrict      = "strict"
	loggerName            = "passivejoints"
	appMetadataKeyLogger  = "logger"
	appMetadataKeySolver  = "solver"
)

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut. Logs go to logger unless --debug or --log-file replaces it.
func NewApp(out, errOut io.Writer, logger logging.Logger) *cli.App {
	var logFile io.Closer
	outputFlags := []cli.Flag{
		&cli.BoolFlag{
			Name:  outputFlagNamed,
			Usage: "also output angles keyed by passive joint name",
		},
		&cli.BoolFlag{
			Name:  outputFlagQuaternions,
			Usage: "also output each passive joint orientation as a quaternion",
		},
	}

	return &cli.App{
		Name:            "passivejoints",
		Usage:           "compute the passive joint angles of a Stewart-platform head",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    generalFlagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.StringFlag{
				Name:  generalFlagLogFile,
				Usage: "write logs to `FILE` instead of stderr",
			},
		},
		Before: func(c *cli.Context) error {
			level := zapcore.InfoLevel
			if c.Bool(generalFlagDebug) {
				level = zapcore.DebugLevel
			}
			switch path := c.String(generalFlagLogFile); {
			case path != "":
				logger, logFile = logging.NewFileLogger(loggerName, path, level)
			case level == zapcore.DebugLevel:
				logger = logging.NewDebugLogger(loggerName)
			}
			solver, err := stewart.NewSolver(stewart.ReachyMiniGeometry(), logger)
			if err != nil {
				return errors.Wrap(err, "invalid geometry")
			}
			c.App.Metadata = map[string]interface{}{
				appMetadataKeyLogger: logger,
				appMetadataKeySolver: solver,
			}
			return nil
		},
		After: func(c *cli.Context) error {
			if logFile == nil {
				return nil
			}
			return logFile.Close()
		},
		Commands: []*cli.Command{
			{
				Name:      "solve",
				Usage:     "solve one sample given on the command line",
				UsageText: "passivejoints solve --joints YAW,L1,...,L6 --pose M00,M01,...,M33",
				Flags: append([]cli.Flag{
					&cli.Float64SliceFlag{
						Name:     solveFlagJoints,
						Usage:    "body yaw followed by the six leg angles, in radians",
						Required: true,
					},
					&cli.Float64SliceFlag{
						Name:     solveFlagPose,
						Usage:    "platform pose, a 4x4 homogeneous transform flattened row-major",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  solveFlagTable,
						Usage: "print a table of joint angles in degrees instead of JSON",
					},
				}, outputFlags...),
				Action: SolveAction,
			},
			{
				Name:  "stream",
				Usage: "solve newline-delimited JSON samples until the input ends",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  streamFlagInput,
						Usage: "read samples from `FILE` instead of stdin",
					},
					&cli.StringFlag{
						Name:  streamFlagOutput,
						Usage: "write results to `FILE` instead of stdout",
					},
					&cli.BoolFlag{
						Name:  streamFlagStrict,
						Usage: "stop at the first sample that cannot be solved",
					},
				}, outputFlags...),
				Action: StreamAction,
			},
			{
				Name:   "schema",
				Usage:  "print the JSON schemas of stream samples and results",
				Action: SchemaAction,
			},
		},
	}
}

func loggerFromContext(c *cli.Context) logging.Logger {
	if logger, ok := c.App.Metadata[appMetadataKeyLogger].(logging.Logger); ok {
		return logger
	}
	return logging.Global()
}

func solverFromContext(c *cli.Context) *stewart.Solver {
	if solver, ok := c.App.Metadata[appMetadataKeySolver].(*stewart.Solver); ok {
		return solver
	}
	return stewart.DefaultSolver()
}

// printf prints a message with no decoration.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}
