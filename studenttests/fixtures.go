package studenttests

import (
	"math/rand"
	"strings"
	"time"

	"github.com/studentapi/student-contract-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// EmailDomain is the domain of every generated email address.
const EmailDomain = "example.com"

const (
	emailLocalPartLength = 12
	unknownIDLength      = 12
	alphanumeric         = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// FirstNames is the pool that generated first names are drawn from.
var FirstNames = []string{
	"Anne", "Bart", "Cyan", "Desmond", "Edwina", "Frank", "Gal",
	"Henry", "Ina", "Judy", "Kate", "Louis", "Mark", "Nancy", "Oswald",
	"Percy", "Quincy", "Rebecca", "Susan", "Triana", "Ulf", "Veronica",
	"Wanda", "Xavier", "Yolanda", "Zander",
}

// LastNames is the pool that generated last names are drawn from.
var LastNames = []string{
	"Abernathy", "Brinkley", "Crispin", "Drummond", "Edwards", "Frank",
	"Gladfeld", "Hollister", "Iriqouois", "Jones", "Kapshaw", "Livery", "Matthews",
	"Nuncle", "Oswego", "Penny", "Quincy", "Reynolds", "Stevens", "Tingle",
	"Ulfmanson", "Violet", "Walters", "Xavier", "Yellen", "Zingle",
}

// FixtureGenerator builds student records for tests to submit. It is not safe for concurrent use.
type FixtureGenerator struct {
	rand *rand.Rand
}

// NewFixtureGenerator creates a FixtureGenerator with a fixed seed, so the same sequence of
// calls always produces the same records.
func NewFixtureGenerator(seed int64) *FixtureGenerator {
	return &FixtureGenerator{rand: rand.New(rand.NewSource(seed))}
}

// NewRandomFixtureGenerator creates a FixtureGenerator seeded from the clock.
func NewRandomFixtureGenerator() *FixtureGenerator {
	return NewFixtureGenerator(time.Now().UnixNano())
}

// ValidStudent returns a record that the service must accept: a random email address, and a
// first and last name picked from the name pools. Each property in overrides replaces or adds
// to these; an override of ldvalue.Null() is sent as an explicit null.
func (g *FixtureGenerator) ValidStudent(overrides servicedef.Student) servicedef.Student {
	student := servicedef.Student{
		servicedef.FieldEmail:     ldvalue.String(g.RandomString(emailLocalPartLength) + "@" + EmailDomain),
		servicedef.FieldFirstName: ldvalue.String(g.pick(FirstNames)),
		servicedef.FieldLastName:  ldvalue.String(g.pick(LastNames)),
	}
	return student.With(overrides)
}

// RandomString returns a random alphanumeric string.
func (g *FixtureGenerator) RandomString(length int) string {
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		b.WriteByte(alphanumeric[g.rand.Intn(len(alphanumeric))])
	}
	return b.String()
}

// UnknownID returns a numeric identifier that is long enough that no service will have
// assigned it.
func (g *FixtureGenerator) UnknownID() string {
	var b strings.Builder
	b.WriteByte('9')
	for i := 1; i < unknownIDLength; i++ {
		b.WriteByte(byte('0' + g.rand.Intn(10)))
	}
	return b.String()
}

func (g *FixtureGenerator) pick(pool []string) string {
	return pool[g.rand.Intn(len(pool))]
}
