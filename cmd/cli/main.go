package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/limaJavier/coursetabling/internal/config"
	"github.com/limaJavier/coursetabling/internal/csvio"
	"github.com/limaJavier/coursetabling/internal/logger"
	"github.com/limaJavier/coursetabling/internal/model"
)

var (
	validStrategies = []string{"serial", "parallel"}
	schedulers      = map[string]func(options model.SchedulerOptions, workers int) model.Scheduler{
		"serial": func(options model.SchedulerOptions, _ int) model.Scheduler {
			return model.NewScheduler(options)
		},
		"parallel": model.NewParallelScheduler,
	}
)

func main() {
	// Define arguments
	configPtr := flag.String("config", "", "Path to a JSON or YAML configuration file; defaults apply when empty")
	filePtr := flag.String("file", "", "Path to a JSON input file; when set it replaces the CSV dataset from the configuration")
	outPtr := flag.String("out", "", "Path to the file where the timetable will be written; \"-\" writes it into the Standard Output")
	strategyPtr := flag.String("strategy", "", "Search strategy. Allowed values are: \"serial\" and \"parallel\", where \"serial\" is the default")
	budgetPtr := flag.Uint64("budget", 0, "Maximum number of search steps; 0 means unbounded")
	workersPtr := flag.Int("workers", 0, "Number of parallel branches used by the parallel strategy")
	flag.Parse()

	logg := logger.New("cli")

	// Resolve configuration and flag overrides
	cfg := config.Default()
	if *configPtr != "" {
		loaded, err := config.Load(*configPtr)
		if err != nil {
			logg.Errorf("cannot load configuration: %v", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *strategyPtr != "" {
		cfg.Solver.Strategy = strings.ToLower(*strategyPtr)
	}
	if *budgetPtr > 0 {
		cfg.Solver.Budget = *budgetPtr
	}
	if *workersPtr > 0 {
		cfg.Solver.Workers = *workersPtr
	}

	// Validate arguments
	if !slices.Contains(validStrategies, cfg.Solver.Strategy) {
		logg.Errorf("%v is not a valid strategy", cfg.Solver.Strategy)
		os.Exit(1)
	}

	// Extract input
	var input model.ModelInput
	var err error
	if *filePtr != "" {
		input, err = model.InputFromJson(*filePtr)
	} else {
		input, err = csvio.LoadDataset(cfg.Data)
	}
	if err != nil {
		logg.Errorf("cannot load input: %v", err)
		os.Exit(1)
	}
	logg.Infof("loaded %v courses, %v instructors, %v rooms, %v timeslots, %v sections",
		len(input.Courses), len(input.Instructors), len(input.Rooms), len(input.TimeSlots), len(input.Sections))

	// Initialize engine
	options := model.SchedulerOptions{Budget: cfg.Solver.Budget, Log: logger.New("scheduler")}
	scheduler := schedulers[cfg.Solver.Strategy](options, cfg.Solver.Workers)

	// Build timetable
	assignments, err := scheduler.Build(input)
	if err != nil {
		var integrity model.DataIntegrityError
		var exhausted model.SearchFailureError
		var budget model.BudgetExceededError
		switch {
		case errors.As(err, &integrity):
			logg.Errorf("input is defective: %v", integrity)
			os.Exit(1)
		case errors.As(err, &exhausted):
			logg.Errorf("no feasible timetable: %v", exhausted)
			for section, kind := range exhausted.Blocking {
				logg.Errorf("section %v blocked by %v", section, kind)
			}
			os.Exit(20)
		case errors.As(err, &budget):
			logg.Errorf("%v; retry with a larger budget", budget)
			os.Exit(20)
		default:
			logg.Errorf("an error occurred during timetable construction: %v", err)
			os.Exit(1)
		}
	}

	// Verify timetable correctness
	if !scheduler.Verify(assignments, input) {
		logg.Errorf("verification failed")
		os.Exit(15)
	}

	// Write output
	outFile := cfg.Output.File
	if *outPtr != "" {
		outFile = *outPtr
	}
	if outFile == "" || outFile == "-" {
		document, err := csvio.ExportScheduleString(assignments, input)
		if err != nil {
			logg.Errorf("an error occurred while building the output: %v", err)
			os.Exit(1)
		}
		fmt.Println(document)
	} else {
		if err := csvio.ExportSchedule(assignments, input, outFile); err != nil {
			logg.Errorf("an error occurred while writing the output file: %v", err)
			os.Exit(1)
		}
		logg.Infof("timetable saved to %v", outFile)
	}

	logg.Infof("scheduled %v assignments", len(assignments))
	os.Exit(10)
}
