package sequencer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/alexisbeaulieu97/predeploy/internal/config"
	"github.com/alexisbeaulieu97/predeploy/internal/logger"
	"github.com/alexisbeaulieu97/predeploy/internal/model"
	"github.com/alexisbeaulieu97/predeploy/internal/runner"
	predeployerrors "github.com/alexisbeaulieu97/predeploy/pkg/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeRunner returns canned exit codes keyed by executable command line.
type fakeRunner struct {
	codes  map[string]int
	errs   map[string]error
	output map[string]string
	calls  []string
}

func (f *fakeRunner) Run(_ context.Context, cmd runner.Command) (runner.Outcome, error) {
	line := cmd.String()
	f.calls = append(f.calls, line)
	outcome := runner.Outcome{ExitCode: f.codes[line], Stderr: f.output[line]}
	return outcome, f.errs[line]
}

type recordingReporter struct {
	started  []string
	finished []model.StepResult
}

func (r *recordingReporter) StepStarted(ref model.StepRef) {
	r.started = append(r.started, ref.ID)
}

func (r *recordingReporter) StepFinished(_ model.StepRef, result model.StepResult) {
	r.finished = append(r.finished, result)
}

var defaultCommands = []string{
	"pip install -r requirements.txt",
	"pip install gunicorn psycopg2-binary",
	"python manage.py collectstatic --no-input",
	"python manage.py migrate",
}

func newDefaultSequencer(t *testing.T, r runner.Runner, rep Reporter) *Sequencer {
	t.Helper()
	seq, err := New(Options{
		Steps:    config.DefaultConfig().EnabledSteps(),
		Runner:   r,
		Reporter: rep,
	})
	require.NoError(t, err)
	return seq
}

func TestRunAllStepsSucceed(t *testing.T) {
	t.Parallel()

	fake := &fakeRunner{}
	rep := &recordingReporter{}
	seq := newDefaultSequencer(t, fake, rep)

	results, err := seq.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, predeployerrors.ExitCode(err))

	assert.Equal(t, defaultCommands, fake.calls)
	require.Len(t, results, 4)
	for _, res := range results {
		assert.Equal(t, model.StatusSuccess, res.Status)
	}
	assert.Equal(t, []string{"install_requirements", "install_server", "collect_static", "migrate"}, rep.started)
	assert.Len(t, rep.finished, 4)
}

func TestRunStopsAtFailingStep(t *testing.T) {
	t.Parallel()

	for k := 1; k <= 4; k++ {
		for _, code := range []int{1, 2, 127} {
			fake := &fakeRunner{codes: map[string]int{defaultCommands[k-1]: code}}
			rep := &recordingReporter{}
			seq := newDefaultSequencer(t, fake, rep)

			results, err := seq.Run(context.Background())
			require.Error(t, err)

			assert.Equal(t, code, predeployerrors.ExitCode(err), "step %d", k)
			assert.Equal(t, defaultCommands[:k], fake.calls, "step %d", k)
			require.Len(t, results, k)
			assert.Len(t, rep.finished, k)
			assert.Equal(t, model.StatusFailed, results[k-1].Status)
			assert.Equal(t, code, results[k-1].ExitCode)
			for _, res := range results[:k-1] {
				assert.Equal(t, model.StatusSuccess, res.Status)
			}
		}
	}
}

func TestRunDependencyInstallFailure(t *testing.T) {
	t.Parallel()

	fake := &fakeRunner{codes: map[string]int{defaultCommands[0]: 1}}
	seq := newDefaultSequencer(t, fake, nil)

	_, err := seq.Run(context.Background())

	var stepErr *predeployerrors.StepFailedError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "install_requirements", stepErr.StepID)
	assert.Equal(t, 1, stepErr.ExitCode)
	assert.Equal(t, []string{defaultCommands[0]}, fake.calls)
}

func TestRunMigrationFailure(t *testing.T) {
	t.Parallel()

	fake := &fakeRunner{
		codes:  map[string]int{defaultCommands[3]: 2},
		output: map[string]string{defaultCommands[3]: "django.db.utils.OperationalError: could not connect"},
	}
	seq := newDefaultSequencer(t, fake, nil)

	results, err := seq.Run(context.Background())
	require.Equal(t, 2, predeployerrors.ExitCode(err))
	assert.Equal(t, defaultCommands, fake.calls)

	var stepErr *predeployerrors.StepFailedError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "migrate", stepErr.StepID)
	assert.Contains(t, stepErr.Output, "could not connect")
	assert.ErrorIs(t, results[3].Error, err)
}

func TestRunLaunchFailure(t *testing.T) {
	t.Parallel()

	launchErr := errors.New("exec: \"pip\": executable file not found in $PATH")
	fake := &fakeRunner{
		codes: map[string]int{defaultCommands[0]: runner.ExitNotFound},
		errs:  map[string]error{defaultCommands[0]: launchErr},
	}
	seq := newDefaultSequencer(t, fake, nil)

	results, err := seq.Run(context.Background())
	require.ErrorIs(t, err, launchErr)
	assert.Equal(t, runner.ExitNotFound, predeployerrors.ExitCode(err))
	assert.Len(t, fake.calls, 1)
	assert.Equal(t, model.StatusFailed, results[0].Status)
}

func TestRunLaunchFailureWithoutCode(t *testing.T) {
	t.Parallel()

	fake := &fakeRunner{errs: map[string]error{defaultCommands[1]: errors.New("permission denied")}}
	seq := newDefaultSequencer(t, fake, nil)

	_, err := seq.Run(context.Background())
	assert.Equal(t, runner.ExitCannotExecute, predeployerrors.ExitCode(err))
}

func TestRunTwiceSucceedsTwice(t *testing.T) {
	t.Parallel()

	fake := &fakeRunner{}
	seq := newDefaultSequencer(t, fake, nil)

	_, err := seq.Run(context.Background())
	require.NoError(t, err)
	_, err = seq.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, append(append([]string{}, defaultCommands...), defaultCommands...), fake.calls)
}

func TestRunDryRunNeverInvokesRunner(t *testing.T) {
	t.Parallel()

	fake := &fakeRunner{codes: map[string]int{defaultCommands[0]: 1}}
	rep := &recordingReporter{}
	seq, err := New(Options{
		Steps:    config.DefaultConfig().EnabledSteps(),
		Runner:   fake,
		Reporter: rep,
		DryRun:   true,
	})
	require.NoError(t, err)

	results, err := seq.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, fake.calls)
	require.Len(t, results, 4)
	for i, res := range results {
		assert.Equal(t, model.StatusSkipped, res.Status)
		assert.Equal(t, "dry-run: "+defaultCommands[i], res.Message)
	}
}

func TestRunLogsFailureWithRunID(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := logger.New(logger.Options{Level: "debug", Format: logger.FormatJSON, Writer: buf})
	require.NoError(t, err)

	fake := &fakeRunner{
		codes:  map[string]int{defaultCommands[2]: 1},
		output: map[string]string{defaultCommands[2]: "STATIC_ROOT is not set"},
	}
	seq, err := New(Options{Steps: config.DefaultConfig().EnabledSteps(), Runner: fake, Logger: log})
	require.NoError(t, err)

	_, err = seq.Run(context.Background())
	require.Error(t, err)

	var failure map[string]any
	runIDs := map[string]struct{}{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		runIDs[entry["run_id"].(string)] = struct{}{}
		if entry["level"] == "error" {
			failure = entry
		}
	}

	assert.Len(t, runIDs, 1)
	require.NotNil(t, failure)
	assert.Equal(t, "collect_static", failure["step"])
	assert.Equal(t, "STATIC_ROOT is not set", failure["output"])
	assert.EqualValues(t, 3, failure["index"])
}

func TestNewResolvesCommands(t *testing.T) {
	t.Parallel()

	seq, err := New(Options{
		Steps:   config.DefaultConfig().EnabledSteps(),
		Runner:  &fakeRunner{},
		WorkDir: "/srv/app",
	})
	require.NoError(t, err)

	refs := seq.Steps()
	require.Len(t, refs, 4)
	assert.Equal(t, 1, refs[0].Index)
	assert.Equal(t, 4, refs[3].Total)
	assert.Equal(t, defaultCommands[3], refs[3].Command)
	assert.Equal(t, "/srv/app", seq.steps[0].command.Dir)
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	t.Parallel()

	_, err := New(Options{Steps: config.DefaultConfig().EnabledSteps()})
	require.Error(t, err)

	_, err = New(Options{Runner: &fakeRunner{}})
	require.Error(t, err)

	_, err = New(Options{
		Steps:  []config.Step{{ID: "bad", Run: `echo "x`, Enabled: true}},
		Runner: &fakeRunner{},
	})
	var validationErr *predeployerrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "steps[0].run", validationErr.Field)
}
