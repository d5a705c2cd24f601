package rules

import "testing"

func TestCompatibilityTable(t *testing.T) {
	cases := []struct {
		name       string
		gender     Gender
		orient     Orientation
		candGender Gender
		candOrient Orientation
		want       bool
	}{
		{"hetero man sees hetero woman", GenderMale, OrientationHeterosexual, GenderFemale, OrientationHeterosexual, true},
		{"hetero man sees bi woman", GenderMale, OrientationHeterosexual, GenderFemale, OrientationBisexual, true},
		{"hetero man skips gay woman", GenderMale, OrientationHeterosexual, GenderFemale, OrientationHomosexual, false},
		{"hetero man skips men", GenderMale, OrientationHeterosexual, GenderMale, OrientationBisexual, false},
		{"gay woman sees gay woman", GenderFemale, OrientationHomosexual, GenderFemale, OrientationHomosexual, true},
		{"gay woman sees bi woman", GenderFemale, OrientationHomosexual, GenderFemale, OrientationBisexual, true},
		{"gay woman skips hetero woman", GenderFemale, OrientationHomosexual, GenderFemale, OrientationHeterosexual, false},
		{"gay woman skips men", GenderFemale, OrientationHomosexual, GenderMale, OrientationHomosexual, false},
		{"bi man sees hetero woman", GenderMale, OrientationBisexual, GenderFemale, OrientationHeterosexual, true},
		{"bi man sees gay man", GenderMale, OrientationBisexual, GenderMale, OrientationHomosexual, true},
		{"bi man sees bi man", GenderMale, OrientationBisexual, GenderMale, OrientationBisexual, true},
		{"bi man sees bi woman", GenderMale, OrientationBisexual, GenderFemale, OrientationBisexual, true},
		{"bi man skips hetero man", GenderMale, OrientationBisexual, GenderMale, OrientationHeterosexual, false},
		{"bi man skips gay woman", GenderMale, OrientationBisexual, GenderFemale, OrientationHomosexual, false},
		{"unknown gender is unrestricted", "", OrientationHeterosexual, GenderMale, OrientationHeterosexual, true},
		{"unknown orientation is unrestricted", GenderMale, "", GenderMale, OrientationHeterosexual, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Compatible(tc.gender, tc.orient, tc.candGender, tc.candOrient)
			if got != tc.want {
				t.Fatalf("Compatible(%s,%s,%s,%s)=%v want %v", tc.gender, tc.orient, tc.candGender, tc.candOrient, got, tc.want)
			}
		})
	}
}

func TestNormalizeAcceptsSpanishAliases(t *testing.T) {
	if g, ok := NormalizeGender(" Masculino "); !ok || g != GenderMale {
		t.Fatalf("unexpected gender: %q %v", g, ok)
	}
	if g, ok := NormalizeGender("femenino"); !ok || g != GenderFemale {
		t.Fatalf("unexpected gender: %q %v", g, ok)
	}
	if o, ok := NormalizeOrientation("ambos"); !ok || o != OrientationBisexual {
		t.Fatalf("unexpected orientation: %q %v", o, ok)
	}
	if _, ok := NormalizeOrientation("asexual"); ok {
		t.Fatalf("expected unknown orientation")
	}
}
