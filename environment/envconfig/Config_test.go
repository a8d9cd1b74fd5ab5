package envconfig_test

import (
	"encoding/json"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gowave/environment/envconfig"
)

func TestCreate(t *testing.T) {
	for _, task := range []envconfig.TaskName{envconfig.Calm,
		envconfig.Excite} {
		config := envconfig.NewConfig(envconfig.Wave, task, 250, 0.99)

		e, step, err := config.Create(14)
		if err != nil {
			t.Fatalf("task %v: %v", task, err)
		}
		if e == nil || !step.First() {
			t.Fatalf("task %v: environment should start ready to use", task)
		}

		// Take a few steps to ensure the environment works
		dims := e.ActionSpec().Shape.Len()
		for i := 0; i < 10; i++ {
			next, _ := e.Step(mat.NewVecDense(dims, nil))
			if next.Number != i+1 {
				t.Fatalf("task %v: expected step number %v, got %v", task,
					i+1, next.Number)
			}
		}
	}
}

func TestCreateUnknown(t *testing.T) {
	config := envconfig.NewConfig("Pendulum", envconfig.Calm, 250, 0.99)
	if _, _, err := config.Create(14); err == nil {
		t.Error("expected error for an unknown environment")
	}

	config = envconfig.NewConfig(envconfig.Wave, "SwingUp", 250, 0.99)
	if _, _, err := config.Create(14); err == nil {
		t.Error("expected error for an unknown task")
	}
}

// TestCreateZeroCutoff ensures a zero episode cutoff is rejected at
// construction rather than silently timing every episode out on its
// first step
func TestCreateZeroCutoff(t *testing.T) {
	for _, task := range []envconfig.TaskName{envconfig.Calm,
		envconfig.Excite} {
		config := envconfig.NewConfig(envconfig.Wave, task, 0, 0.99)
		if _, _, err := config.Create(14); err == nil {
			t.Errorf("task %v: expected error for a zero episode cutoff", task)
		}
	}
}

func TestConfigSerializable(t *testing.T) {
	config := envconfig.NewConfig(envconfig.Wave, envconfig.Calm, 250, 0.99)

	data, err := json.Marshal(config)
	if err != nil {
		t.Fatal(err)
	}

	var decoded envconfig.Config
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded != config {
		t.Errorf("expected %v, got %v", config, decoded)
	}
}
