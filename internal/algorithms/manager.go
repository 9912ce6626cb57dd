package algorithms

import (
	"fmt"
	"sort"
	"sync"

	"color-transfer/internal/algorithms/colortransfer"
	"color-transfer/internal/algorithms/histmatch"
)

// Manager is the registry of LUT algorithms together with the current
// parameter set of each.
type Manager struct {
	algorithms       map[string]Algorithm
	currentAlgorithm string
	parameters       map[string]map[string]interface{}
	mu               sync.RWMutex
}

func NewManager() *Manager {
	manager := &Manager{
		algorithms:       make(map[string]Algorithm),
		currentAlgorithm: colortransfer.AlgorithmName,
		parameters:       make(map[string]map[string]interface{}),
	}

	manager.registerAlgorithms()
	manager.initializeDefaultParameters()

	return manager
}

func (m *Manager) registerAlgorithms() {
	transferAlg := colortransfer.NewProcessor()
	matchAlg := histmatch.NewProcessor()

	m.algorithms[transferAlg.GetName()] = transferAlg
	m.algorithms[matchAlg.GetName()] = matchAlg
}

func (m *Manager) initializeDefaultParameters() {
	for name, algorithm := range m.algorithms {
		m.parameters[name] = algorithm.GetDefaultParameters()
	}
}

func (m *Manager) SetCurrentAlgorithm(algorithm string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.algorithms[algorithm]; !exists {
		return fmt.Errorf("unknown algorithm: %s", algorithm)
	}

	m.currentAlgorithm = algorithm
	return nil
}

func (m *Manager) GetCurrentAlgorithm() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentAlgorithm
}

func (m *Manager) GetParameters(algorithm string) map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if params, exists := m.parameters[algorithm]; exists {
		result := make(map[string]interface{})
		for k, v := range params {
			result[k] = v
		}
		return result
	}

	return make(map[string]interface{})
}

// SetParameter validates value against the algorithm before storing it.
func (m *Manager) SetParameter(algorithm, name string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	alg, exists := m.algorithms[algorithm]
	if !exists {
		return fmt.Errorf("unknown algorithm: %s", algorithm)
	}
	if err := alg.ValidateParameters(map[string]interface{}{name: value}); err != nil {
		return err
	}

	m.parameters[algorithm][name] = value
	return nil
}

func (m *Manager) GetAlgorithm(name string) (Algorithm, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if algorithm, exists := m.algorithms[name]; exists {
		return algorithm, nil
	}

	return nil, fmt.Errorf("unknown algorithm: %s", name)
}

// GetAvailableAlgorithms returns the registered names in sorted order.
func (m *Manager) GetAvailableAlgorithms() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	algorithms := make([]string, 0, len(m.algorithms))
	for name := range m.algorithms {
		algorithms = append(algorithms, name)
	}
	sort.Strings(algorithms)

	return algorithms
}
