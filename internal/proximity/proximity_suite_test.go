package proximity

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestProximitySuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Proximity Suite")
}
