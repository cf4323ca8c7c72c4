package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/crillab/pmres/cnf"
	"github.com/crillab/pmres/config"
	"github.com/crillab/pmres/diag"
	"github.com/crillab/pmres/encoder"
	"github.com/crillab/pmres/formula"
	"github.com/crillab/pmres/oracle"
	"github.com/crillab/pmres/search"
	"github.com/crillab/pmres/wcnf"
)

func main() {
	var (
		verbosity  int
		lins       int
		strategy   string
		varres     bool
		varresCG   bool
		varresFact uint64
		timeLimit  float64
	)
	flag.IntVar(&verbosity, "verbosity", 0, "diagnostic verbosity level")
	flag.IntVar(&lins, "lins", int(search.CoreGuidedLinearSearch), "0=pure core-guided, 1=hybrid, 2=linear-only")
	flag.StringVar(&strategy, "weight-strategy", "normal", "none, normal or diversify")
	flag.BoolVar(&varresCG, "varyingres-cg", false, "enable varying-resolution stratification in the core-guided phase")
	flag.BoolVar(&varres, "varyingres", false, "enable varying-resolution in the linear phase")
	flag.Uint64Var(&varresFact, "varres-factor", 2, "varying-resolution divisor, >= 2")
	flag.Float64Var(&timeLimit, "time-limit-cores", -1, "seconds budgeted to the core-guided phase; -1 = no limit")
	flag.Parse()

	if len(flag.Args()) != 1 {
		fmt.Fprintf(os.Stderr, "Syntax : %s [options] (file.cnf|file.wcnf)\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	path := flag.Args()[0]

	cfg, err := config.Load(map[string]interface{}{
		"weight_strategy":  strategy,
		"lins":             lins,
		"varyingres_cg":    varresCG,
		"varyingres":       varres,
		"varres_factor":    varresFact,
		"time_limit_cores": timeLimit,
		"verbosity":        verbosity,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "c %v\n", err)
		os.Exit(1)
	}

	f, err := parseInput(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "c could not parse %q: %v\n", path, err)
		os.Exit(1)
	}

	logger := diag.New(os.Stdout, verbosity)
	logger.Comment("solving %s", path)

	o := oracle.NewSolver(f.NVars())
	enc := encoder.NewSeqCounterEncoder()
	results := make(chan search.Result)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for r := range results {
			fmt.Printf("o %d\n", r.Cost)
		}
	}()
	res := search.Search(f, o, enc, cfg, results)
	wg.Wait()

	fmt.Printf("s %s\n", res.Status)
	switch res.Status {
	case search.StatusOptimum:
		printModel(res.Model)
	case search.StatusError:
		fmt.Fprintf(os.Stderr, "c %v\n", res.Err)
		os.Exit(1)
	}
}

func parseInput(path string) (*formula.Formula, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	switch {
	case strings.HasSuffix(path, ".wcnf"):
		return wcnf.Parse(file)
	case strings.HasSuffix(path, ".cnf"):
		return cnf.Parse(file)
	default:
		return nil, fmt.Errorf("unrecognised extension, expected .cnf or .wcnf")
	}
}

func printModel(model []bool) {
	var sb strings.Builder
	sb.WriteString("v")
	for i, v := range model {
		if v {
			fmt.Fprintf(&sb, " %d", i+1)
		} else {
			fmt.Fprintf(&sb, " -%d", i+1)
		}
	}
	fmt.Println(sb.String())
}
