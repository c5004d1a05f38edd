package main

import (
	"cmp"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/npillmayer/containers/avl"
	"github.com/npillmayer/containers/hashtable"
	"github.com/npillmayer/containers/list"
)

// workload is a fixed set of keys, generated once and shared by all engines.
type workload struct {
	keys    []string
	probes  []string // keys in lookup order
	seed    int64
	maxLoad float64
}

func newWorkload(count int, seed int64, kind string) (*workload, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, is %d", count)
	}
	w := &workload{seed: seed, keys: make([]string, count)}
	rnd := rand.New(rand.NewSource(seed))
	switch kind {
	case "int":
		for i, n := range rnd.Perm(count) {
			w.keys[i] = fmt.Sprintf("%09d", n)
		}
	case "words":
		faker := gofakeit.New(seed)
		for i := range w.keys {
			w.keys[i] = faker.Username()
		}
	default:
		return nil, fmt.Errorf("unknown key kind %q", kind)
	}
	w.probes = make([]string, count)
	copy(w.probes, w.keys)
	rnd.Shuffle(count, func(i, j int) {
		w.probes[i], w.probes[j] = w.probes[j], w.probes[i]
	})
	return w, nil
}

// result is one timed phase of an engine run.
type result struct {
	engine  string
	phase   string
	ops     int
	elapsed time.Duration
	info    string
	err     error
}

type engine struct {
	name string
	run  func(w *workload, prog *progress) ([]result, error)
}

var (
	listEngine = engine{name: "list", run: runList}
	treeEngine = engine{name: "tree", run: runTree}
	hashEngine = engine{name: "hash", run: runHash}
)

// phases collects timed results of a single engine run.
type phases struct {
	engine  string
	prog    *progress
	results []result
}

func (ph *phases) measure(phase string, ops int, f func() (string, error)) error {
	ph.prog.publish(event{engine: ph.engine, phase: phase})
	start := time.Now()
	info, err := f()
	r := result{
		engine:  ph.engine,
		phase:   phase,
		ops:     ops,
		elapsed: time.Since(start),
		info:    info,
		err:     err,
	}
	ph.results = append(ph.results, r)
	ph.prog.publish(event{engine: ph.engine, phase: phase, done: true, err: err})
	return err
}

func runList(w *workload, prog *progress) ([]result, error) {
	ph := &phases{engine: "list", prog: prog}
	l, err := list.New(list.Config[string]{})
	if err != nil {
		return nil, err
	}
	defer l.Close()
	err = ph.measure("insert", len(w.keys), func() (string, error) {
		for _, k := range w.keys {
			if err := l.PushBack(k); err != nil {
				return "", err
			}
		}
		return "", nil
	})
	if err == nil {
		err = ph.measure("sort", l.Len(), func() (string, error) {
			l.Sort(strings.Compare)
			if !l.IsSorted(strings.Compare) {
				return "", fmt.Errorf("list not sorted after Sort")
			}
			return fmt.Sprintf("len %d", l.Len()), nil
		})
	}
	if err == nil {
		err = ph.measure("erase", l.Len(), func() (string, error) {
			for n := l.Len(); n > 0; n-- {
				if n%2 == 0 {
					l.PopFront()
				} else {
					l.PopBack()
				}
			}
			if !l.IsEmpty() {
				return "", fmt.Errorf("list holds %d values after erase", l.Len())
			}
			return "", nil
		})
	}
	return ph.results, err
}

func runTree(w *workload, prog *progress) ([]result, error) {
	ph := &phases{engine: "tree", prog: prog}
	t, err := avl.New(avl.Config[string, string]{
		Compare: cmp.Compare[string],
		KeyOf:   avl.Identity[string],
	})
	if err != nil {
		return nil, err
	}
	defer t.Close()
	err = ph.measure("insert", len(w.keys), func() (string, error) {
		for _, k := range w.keys {
			it, _, err := t.Insert(k)
			if err != nil {
				return "", err
			}
			it.Release()
		}
		return fmt.Sprintf("len %d, height %d", t.Len(), t.Height()), t.Check()
	})
	if err == nil {
		err = ph.measure("find", len(w.probes), func() (string, error) {
			for _, k := range w.probes {
				if !t.Contains(k) {
					return "", fmt.Errorf("key %q lost", k)
				}
			}
			return "", nil
		})
	}
	if err == nil {
		half := w.probes[:len(w.probes)/2]
		err = ph.measure("erase", len(half), func() (string, error) {
			for _, k := range half {
				t.EraseKey(k)
			}
			st := t.Stats()
			return fmt.Sprintf("rotations %d single, %d double", st.SingleRotations, st.DoubleRotations),
				t.Check()
		})
	}
	return ph.results, err
}

func runHash(w *workload, prog *progress) ([]result, error) {
	ph := &phases{engine: "hash", prog: prog}
	t, err := hashtable.New(hashtable.Config[string, string]{
		KeyOf:         func(s string) string { return s },
		Hash:          hashtable.StringHash[string],
		MaxLoadFactor: w.maxLoad,
	})
	if err != nil {
		return nil, err
	}
	defer t.Close()
	err = ph.measure("insert", len(w.keys), func() (string, error) {
		for _, k := range w.keys {
			it, _, err := t.Insert(k)
			if err != nil {
				return "", err
			}
			it.Release()
		}
		return fmt.Sprintf("buckets %d, load %.2f", t.BucketCount(), t.LoadFactor()), t.Check()
	})
	if err == nil {
		err = ph.measure("find", len(w.probes), func() (string, error) {
			for _, k := range w.probes {
				if !t.Contains(k) {
					return "", fmt.Errorf("key %q lost", k)
				}
			}
			return "", nil
		})
	}
	if err == nil {
		half := w.probes[:len(w.probes)/2]
		err = ph.measure("erase", len(half), func() (string, error) {
			for _, k := range half {
				t.EraseKey(k)
			}
			st := t.Stats()
			return fmt.Sprintf("rehashes %d, grows %d", st.Rehashes, st.Grows), t.Check()
		})
	}
	return ph.results, err
}
