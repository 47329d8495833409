package config

import (
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/inference-sim/fracalloc/alloc"
)

func ptr(v float64) *float64 { return &v }

func linearUse(name string, slope, offset float64) UseSpec {
	return UseSpec{Name: name, Multiplier: ptr(1), Type: alloc.KindLinear, LinearSlope: ptr(slope), Offset: ptr(offset)}
}

func validConfig() *Config {
	return &Config{
		PriceUnit:     "USD",
		QuantityUnit:  "acres",
		TotalQuantity: 10,
		Uses: []UseSpec{
			linearUse("a", -1, 10),
			linearUse("b", -0.5, 8),
			{
				Name: "c", Multiplier: ptr(2), Type: alloc.KindExponential,
				Coefficient: ptr(1), HorizontalShift: ptr(-1), Exponent: ptr(1), Offset: ptr(0.5),
			},
		},
	}
}

var _ = Describe("Load", func() {
	It("reads the extension-less JSON sample", func() {
		cfg, err := Load(filepath.Join("testdata", "sample-data"))
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.PriceUnit).To(Equal("USD"))
		Expect(cfg.QuantityUnit).To(Equal("acres"))
		Expect(cfg.TotalQuantity).To(Equal(100.0))
		Expect(cfg.Uses).To(HaveLen(3))
		Expect(cfg.Uses[1].Name).To(Equal("Corn"))
		Expect(*cfg.Uses[1].Multiplier).To(Equal(1.5))
		Expect(cfg.Validate()).To(Succeed())
	})

	It("reads YAML with mixed pricing types", func() {
		cfg, err := Load(filepath.Join("testdata", "mixed.yaml"))
		Expect(err).NotTo(HaveOccurred())
		uses, err := cfg.Uses()
		Expect(err).NotTo(HaveOccurred())
		Expect(uses).To(HaveLen(3))
		Expect(uses[0].Price).To(Equal(alloc.Power{Coefficient: 1, Shift: 0, Exponent: 1, Offset: 2}))
		Expect(uses[1].Price).To(Equal(alloc.Linear{Slope: -1, Offset: 8}))
	})

	It("rejects unknown YAML keys", func() {
		path := filepath.Join(GinkgoT().TempDir(), "typo.yaml")
		Expect(os.WriteFile(path, []byte("totalQuantty: 5\n"), 0644)).To(Succeed())
		_, err := Load(path)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("totalQuantty"))
	})

	It("rejects unknown JSON keys", func() {
		path := filepath.Join(GinkgoT().TempDir(), "typo.json")
		Expect(os.WriteFile(path, []byte(`{"totalQuantity": 5, "h": 1}`), 0644)).To(Succeed())
		_, err := Load(path)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring(`"h"`))
	})

	It("reports a missing file", func() {
		_, err := Load(filepath.Join(GinkgoT().TempDir(), "absent.json"))
		Expect(err).To(MatchError(ContainSubstring("reading config")))
	})
})

var _ = Describe("Parse", func() {
	It("rejects an unknown format", func() {
		_, err := Parse([]byte("{}"), "toml")
		Expect(err).To(MatchError(ContainSubstring(`unknown config format "toml"`)))
	})
})

var _ = Describe("Validate", func() {
	It("accepts a well-formed configuration", func() {
		Expect(validConfig().Validate()).To(Succeed())
	})

	It("refuses fewer than three uses", func() {
		cfg := validConfig()
		cfg.Uses = cfg.Uses[:2]
		err := cfg.Validate()
		Expect(errors.Is(err, alloc.ErrConfiguration)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("at least 3 uses required, got 2"))
	})

	It("refuses a non-positive total", func() {
		cfg := validConfig()
		cfg.TotalQuantity = 0
		Expect(cfg.Validate()).To(MatchError(alloc.ErrConfiguration))
	})

	DescribeTable("per-use field rules",
		func(mutate func(*UseSpec), fragment string) {
			cfg := validConfig()
			mutate(&cfg.Uses[0])
			err := cfg.Validate()
			Expect(errors.Is(err, alloc.ErrConfiguration)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring(fragment))
		},
		Entry("missing slope", func(u *UseSpec) { u.LinearSlope = nil }, "linearSlope is required"),
		Entry("missing offset", func(u *UseSpec) { u.Offset = nil }, "offset is required"),
		Entry("missing multiplier", func(u *UseSpec) { u.Multiplier = nil }, "multiplier is required"),
		Entry("power field on linear", func(u *UseSpec) { u.Exponent = ptr(2) }, "exponent is not valid for type linear"),
		Entry("unknown type", func(u *UseSpec) { u.Type = "quadratic" }, `unknown type "quadratic"`),
		Entry("missing name", func(u *UseSpec) { u.Name = "" }, "name is required"),
		Entry("duplicate name", func(u *UseSpec) { u.Name = "b" }, `name "b" already used`),
		Entry("slope on exponential", func(u *UseSpec) {
			u.Type = alloc.KindExponential
			u.Coefficient, u.HorizontalShift, u.Exponent = ptr(1), ptr(0), ptr(1)
		}, "linearSlope is not valid for type exponential"),
		Entry("missing exponent", func(u *UseSpec) {
			u.Type = alloc.KindExponential
			u.LinearSlope = nil
			u.Coefficient, u.HorizontalShift = ptr(1), ptr(0)
		}, "exponent is required"),
	)

	It("collects every problem in one error", func() {
		cfg := validConfig()
		cfg.Uses[0].LinearSlope = nil
		cfg.Uses[1].Type = "bogus"
		err := cfg.Validate()
		Expect(err).To(MatchError(ContainSubstring("linearSlope is required")))
		Expect(err).To(MatchError(ContainSubstring(`unknown type "bogus"`)))
	})
})

var _ = Describe("Uses", func() {
	It("builds tagged price models in file order", func() {
		uses, err := validConfig().Uses()
		Expect(err).NotTo(HaveOccurred())
		Expect(uses).To(HaveLen(3))
		Expect(uses[0]).To(Equal(alloc.Use{Name: "a", Multiplier: 1, Price: alloc.Linear{Slope: -1, Offset: 10}}))
		Expect(uses[2].Price.Kind()).To(Equal(alloc.KindExponential))
		Expect(uses[2].Multiplier).To(Equal(2.0))
	})

	It("returns no uses when validation fails", func() {
		cfg := validConfig()
		cfg.Uses = cfg.Uses[:2]
		uses, err := cfg.Uses()
		Expect(uses).To(BeNil())
		Expect(err).To(MatchError(alloc.ErrConfiguration))
	})

	It("feeds the optimizer end to end", func() {
		cfg, err := Load(filepath.Join("testdata", "mixed.yaml"))
		Expect(err).NotTo(HaveOccurred())
		uses, err := cfg.Uses()
		Expect(err).NotTo(HaveOccurred())
		seq, err := alloc.Enumerate(cfg.TotalQuantity, cfg.Interval(10), len(uses))
		Expect(err).NotTo(HaveOccurred())
		res, err := alloc.Optimize(seq, uses)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Allocation).To(Equal([]float64{4, 3, 3}))
		Expect(res.Revenue).To(Equal(34.5))
		Expect(res.Excluded).To(Equal(11))
	})
})

var _ = Describe("Interval", func() {
	It("divides the total into the requested number of steps", func() {
		cfg := validConfig()
		Expect(cfg.Interval(5)).To(Equal(2.0))
	})

	It("defaults to one hundredth of the total", func() {
		cfg := validConfig()
		Expect(cfg.Interval(0)).To(Equal(0.1))
	})
})
