package dataset

import (
	"math"
	"testing"
)

func TestPlanetaryConstantsRoundTrip(t *testing.T) {
	s := NewPlanetaryConstantsSet()
	s.SetByID(399, "EARTH", PlanetaryConstants{
		ParentOrientationID: 3,
		GM:                  398600.4418,
		Ellipsoid:           Ellipsoid{Present: true, RadiusA: 6378.137, RadiusB: 6378.137, RadiusC: 6356.752},
		PoleRA: PhaseAnglePolynomial{
			Present:  true,
			Constant: 0.0,
			Rate:     -0.641,
			TrigTerms: []TrigTerm{
				{Coefficient: -0.00001, AngleIndex: 0},
			},
		},
		PoleDec: PhaseAnglePolynomial{Present: true, Constant: 90.0},
		NutPrecAngles: []NutationPrecessionAngle{
			{Constant: 125.045, Rate: -1935.5364525},
		},
	})
	s.SetByID(301, "MOON", PlanetaryConstants{GM: 4902.8001})

	encoded := s.Encode()
	decoded, err := DecodePlanetaryConstantsSet(encoded)
	if err != nil {
		t.Fatalf("DecodePlanetaryConstantsSet: %v", err)
	}
	if decoded.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", decoded.Len())
	}

	earth, err := decoded.GetByID(399)
	if err != nil {
		t.Fatalf("GetByID(399): %v", err)
	}
	if math.Abs(earth.GM-398600.4418) > 1e-9 {
		t.Errorf("GM = %v, want 398600.4418", earth.GM)
	}
	if !earth.Ellipsoid.Present || math.Abs(earth.Ellipsoid.RadiusA-6378.137) > 1e-9 {
		t.Errorf("Ellipsoid = %+v", earth.Ellipsoid)
	}
	if !earth.PoleRA.Present || len(earth.PoleRA.TrigTerms) != 1 {
		t.Errorf("PoleRA = %+v", earth.PoleRA)
	}
	if len(earth.NutPrecAngles) != 1 {
		t.Errorf("NutPrecAngles = %+v", earth.NutPrecAngles)
	}

	byName, err := decoded.GetByName("MOON")
	if err != nil {
		t.Fatalf("GetByName(MOON): %v", err)
	}
	if math.Abs(byName.GM-4902.8001) > 1e-9 {
		t.Errorf("GM = %v, want 4902.8001", byName.GM)
	}
}

func TestPlanetaryConstantsCRCTamperDetected(t *testing.T) {
	s := NewPlanetaryConstantsSet()
	s.SetByID(10, "SUN", PlanetaryConstants{GM: 132712440018.0})
	encoded := s.Encode()

	tampered := append([]byte(nil), encoded...)
	tampered[len(tampered)-1] ^= 0xFF

	if _, err := DecodePlanetaryConstantsSet(tampered); err == nil {
		t.Fatal("expected checksum_invalid error on tampered payload")
	}
}

func TestPlanetaryConstantsVersionMismatchRejected(t *testing.T) {
	s := NewPlanetaryConstantsSet()
	s.SetByID(1, "X", PlanetaryConstants{})
	encoded := s.Encode()
	encoded[0] = byte(CurrentVersion.Major + 1)

	if _, err := DecodePlanetaryConstantsSet(encoded); err == nil {
		t.Fatal("expected anise_version error on major version mismatch")
	}
}

func TestPlanetaryConstantsRmAndReID(t *testing.T) {
	s := NewPlanetaryConstantsSet()
	s.SetByID(1, "A", PlanetaryConstants{GM: 1})
	s.SetByID(2, "B", PlanetaryConstants{GM: 2})
	s.RmByName("A")
	if s.Len() != 1 {
		t.Fatalf("Len() = %d after RmByName, want 1", s.Len())
	}
	if _, err := s.GetByID(1); err == nil {
		t.Fatal("expected id 1 to be gone")
	}
	if err := s.ReID(2, 99); err != nil {
		t.Fatalf("ReID: %v", err)
	}
	if _, err := s.GetByID(2); err == nil {
		t.Fatal("expected old id 2 to be gone after ReID")
	}
	rec, err := s.GetByName("B")
	if err != nil {
		t.Fatalf("GetByName(B) after ReID: %v", err)
	}
	if rec.GM != 2 {
		t.Errorf("GM = %v, want 2", rec.GM)
	}
}

func TestSpacecraftConstantsRoundTrip(t *testing.T) {
	s := NewSpacecraftConstantsSet()
	s.SetByID(-10000001, "MY-SAT", SpacecraftConstants{
		MassKgPresent: true,
		MassKg:        1200.0,
		SRPPresent:    true,
		SRPData:       SRP{AreaM2: 4.5, CoeffReflectivity: 1.3},
		InertiaPresent: true,
		InertiaData:    Inertia{Ixx: 100, Iyy: 200, Izz: 300},
	})

	decoded, err := DecodeSpacecraftConstantsSet(s.Encode())
	if err != nil {
		t.Fatalf("DecodeSpacecraftConstantsSet: %v", err)
	}
	rec, err := decoded.GetByName("MY-SAT")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if !rec.MassKgPresent || rec.MassKg != 1200.0 {
		t.Errorf("MassKg = %+v", rec)
	}
	if rec.DragPresent {
		t.Errorf("DragPresent = true, want false")
	}
	if !rec.InertiaPresent || rec.InertiaData.Izz != 300 {
		t.Errorf("InertiaData = %+v", rec.InertiaData)
	}
}

func TestEulerParameterSetRoundTrip(t *testing.T) {
	c := NewEulerParameterSetContainer()
	c.SetByID(-10000001, "MY-SAT-ATTITUDE", EulerParameterSet{
		ReferenceFrameID:    1,
		Epoch:               12345.6,
		Params:              EulerParameters{Q0: 1, Q1: 0, Q2: 0, Q3: 0},
		AngularVelocityRadS: [3]float64{0, 0, 0.001},
	})

	decoded, err := DecodeEulerParameterSetContainer(c.Encode())
	if err != nil {
		t.Fatalf("DecodeEulerParameterSetContainer: %v", err)
	}
	rec, err := decoded.GetByID(-10000001)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if rec.Params.Q0 != 1 {
		t.Errorf("Q0 = %v, want 1", rec.Params.Q0)
	}
	if rec.AngularVelocityRadS[2] != 0.001 {
		t.Errorf("AngularVelocityRadS[2] = %v, want 0.001", rec.AngularVelocityRadS[2])
	}
}
