package module

import dom "domainsift/internal/services/batch/domain"

// Ports holds the ports exposed by the batch module
type Ports struct {
	Processor dom.ProcessorPort
}
