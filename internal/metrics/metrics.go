package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the sandbox's Prometheus collectors. A nil *Metrics is valid
// and records nothing, so library code never has to check.
//
// Exposed series:
//   - voxelsand_chunks_generated_total
//   - voxelsand_chunk_generate_seconds (histogram)
//   - voxelsand_chunk_renders_total / voxelsand_chunk_unrenders_total
//   - voxelsand_face_slots / voxelsand_live_faces (gauges)
//   - voxelsand_rendered_chunks (gauge)
//   - voxelsand_face_rebuilds_total / voxelsand_chunk_evictions_total
//   - voxelsand_structure_voxels_total{result}
type Metrics struct {
	chunksGenerated  prometheus.Counter
	generateDuration prometheus.Histogram
	chunkRenders     prometheus.Counter
	chunkUnrenders   prometheus.Counter
	faceSlots        prometheus.Gauge
	liveFaces        prometheus.Gauge
	renderedChunks   prometheus.Gauge
	rebuilds         prometheus.Counter
	evictions        prometheus.Counter
	structureVoxels  *prometheus.CounterVec
}

const namespace = "voxelsand"

// New creates the collectors and registers them on reg. A nil reg leaves them
// unregistered, which tests use to read values directly.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		chunksGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_generated_total",
			Help:      "Chunks populated by the terrain generator.",
		}),
		generateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chunk_generate_seconds",
			Help:      "Time spent populating a single chunk.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		chunkRenders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunk_renders_total",
			Help:      "Chunks whose faces were added to the render list.",
		}),
		chunkUnrenders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunk_unrenders_total",
			Help:      "Chunks whose faces were retracted from the render list.",
		}),
		faceSlots: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "face_slots",
			Help:      "Slots in the render list, holes included.",
		}),
		liveFaces: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_faces",
			Help:      "Live render objects in the render list.",
		}),
		renderedChunks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rendered_chunks",
			Help:      "Chunks currently in the rendered list.",
		}),
		rebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "face_rebuilds_total",
			Help:      "Full render list rebuilds triggered by the face cap.",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunk_evictions_total",
			Help:      "Chunks dropped from the rendered list by the chunk cap.",
		}),
		structureVoxels: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "structure_voxels_total",
			Help:      "Voxels produced by structure rasterisation.",
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(
			m.chunksGenerated, m.generateDuration,
			m.chunkRenders, m.chunkUnrenders,
			m.faceSlots, m.liveFaces, m.renderedChunks,
			m.rebuilds, m.evictions, m.structureVoxels,
		)
	}
	return m
}

// ChunkGenerated records one populated chunk.
func (m *Metrics) ChunkGenerated(d time.Duration) {
	if m == nil {
		return
	}
	m.chunksGenerated.Inc()
	m.generateDuration.Observe(d.Seconds())
}

func (m *Metrics) ChunkRendered() {
	if m == nil {
		return
	}
	m.chunkRenders.Inc()
}

func (m *Metrics) ChunkUnrendered() {
	if m == nil {
		return
	}
	m.chunkUnrenders.Inc()
}

// Faces publishes the render list occupancy.
func (m *Metrics) Faces(slots, live, chunks int) {
	if m == nil {
		return
	}
	m.faceSlots.Set(float64(slots))
	m.liveFaces.Set(float64(live))
	m.renderedChunks.Set(float64(chunks))
}

func (m *Metrics) Rebuild() {
	if m == nil {
		return
	}
	m.rebuilds.Inc()
}

func (m *Metrics) Evicted(n int) {
	if m == nil {
		return
	}
	m.evictions.Add(float64(n))
}

// StructureVoxel counts a rasterised voxel; result is "placed" or "out_of_border".
func (m *Metrics) StructureVoxel(result string) {
	if m == nil {
		return
	}
	m.structureVoxels.WithLabelValues(result).Inc()
}

// Collectors exposes the raw collectors for assertions.
func (m *Metrics) Collectors() (generated, renders, unrenders, rebuilds, evictions prometheus.Counter) {
	return m.chunksGenerated, m.chunkRenders, m.chunkUnrenders, m.rebuilds, m.evictions
}

// Gauges exposes the occupancy gauges for assertions.
func (m *Metrics) Gauges() (slots, live, chunks prometheus.Gauge) {
	return m.faceSlots, m.liveFaces, m.renderedChunks
}
