// bspfft-bench times the distributed FFT: it initializes x[j] = j + i,
// runs repeated forward+inverse pairs, and reports the computing rate
// and the accuracy of the round trip. A yaml file can configure a
// matrix of runs; without one a single default run executes.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/cmplx"
	"os"
	"time"

	bspfft "github.com/bspkit/go-bsp-fft"
	"github.com/bspkit/go-bsp-fft/bsp"
	"github.com/bspkit/go-bsp-fft/partition"
	"gopkg.in/yaml.v2"
)

const mega = 1000000.0

type runConfig struct {
	Power      int  `yaml:"power"`      // transform length is 2^power
	Procs      int  `yaml:"procs"`      // processors in the group
	Iterations int  `yaml:"iterations"` // forward+inverse pairs to time
	NPrint     int  `yaml:"nprint"`     // output triples per processor
	MockKernel bool `yaml:"mockKernel"` // run through the mock kernel backend
}

type config struct {
	Runs []runConfig `yaml:"runs"`
}

func main() {
	configPath := flag.String("config", "", "yaml file with a matrix of benchmark runs")
	flag.Parse()

	cfg := config{
		Runs: []runConfig{{Power: 12, Procs: 2, Iterations: 5, NPrint: 3}},
	}
	if *configPath != "" {
		f, err := os.Open(*configPath)
		if err != nil {
			log.Fatalf("open config: %v", err)
		}
		cfg = config{}
		err = yaml.NewDecoder(f).Decode(&cfg)
		f.Close()
		if err != nil {
			log.Fatalf("decode config: %v", err)
		}
	}

	for _, run := range cfg.Runs {
		if err := bench(run); err != nil {
			log.Fatalf("benchmark n=2^%d p=%d: %v", run.Power, run.Procs, err)
		}
	}
}

func bench(run runConfig) error {
	if run.Power < 0 || run.Procs < 1 || run.Iterations < 1 {
		return fmt.Errorf("invalid run configuration %+v", run)
	}
	n := 1 << run.Power

	env := bsp.Environment{}
	return env.Spawn(run.Procs, func(w *bsp.World) error {
		s := w.Rank()
		p := w.Size()
		np := n / p

		if s == 0 {
			kernel := "pure-Go kernel"
			if run.MockKernel {
				kernel = "mock kernel backend"
			}
			w.Logf("Parallel FFT of length %d using %d processors (%s), doing %d benchmark iterations",
				n, p, kernel, run.Iterations)

			// For reference against the cyclic layout the transform
			// uses, report the equivalent contiguous decomposition.
			blocks := partition.NewBlock([]int{n}, []int{p})
			w.Logf("cyclic distribution holds %d elements per processor; a block partitioning would use blocks of %d",
				np, blocks.BlockSize()[0])
		}

		xs := bspfft.NewVector(w, np)

		var tr *bspfft.Transform
		if run.MockKernel {
			tr = bspfft.NewWithKernel(w, n, bspfft.NewMockKernelBackend())
		} else {
			tr = bspfft.New(w, n)
		}

		// Time table initialization separately from the transform.
		start := time.Now()
		for it := 0; it < run.Iterations; it++ {
			tr.Reinitialize(n)
		}
		w.Sync()
		initTime := time.Since(start).Seconds()

		if run.MockKernel {
			tr.BindKernel(xs)
		}

		local := xs.Local()
		for j := 0; j < np; j++ {
			jglob := j*p + s
			local[j] = complex(float64(jglob), 1)
		}
		w.Sync()

		start = time.Now()
		for it := 0; it < run.Iterations; it++ {
			tr.Forward(xs)
			tr.Inverse(xs)
		}
		w.Sync()
		fftTime := time.Since(start).Seconds()

		// Round-trip accuracy, gathered to processor 0.
		maxError := 0.0
		for j := 0; j < np; j++ {
			jglob := j*p + s
			if err := cmplx.Abs(local[j] - complex(float64(jglob), 1)); err > maxError {
				maxError = err
			}
		}
		errs := bsp.NewCoarray[float64](w, p)
		errs.Put(0, s, []float64{maxError})
		w.Sync()

		for j := 0; j < run.NPrint && j < np; j++ {
			jglob := j*p + s
			w.Logf("proc=%d j=%d Re= %f Im= %f", s, jglob, real(local[j]), imag(local[j]))
		}
		w.Sync()

		if s == 0 {
			for _, e := range errs.Local() {
				if e > maxError {
					maxError = e
				}
			}

			perFFT := fftTime / (2 * float64(run.Iterations))
			flops := 5*float64(n)*math.Log2(float64(n)) + 2*float64(n)
			w.Logf("Time per initialization = %f sec", initTime/float64(run.Iterations))
			w.Logf("Time per FFT = %f sec", perFFT)
			w.Logf("Computing rate in FFT = %f Mflop/s", flops/(mega*perFFT))
			w.Logf("Absolute error = %e", maxError)
			w.Logf("Relative error = %e", maxError/float64(n))
		}
		w.Sync()
		return nil
	})
}
