package uniform

import "testing"

func TestVecLengthValidation(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for zero-length Vec")
		}
	}()
	Vec(nil)
}

func TestMat3LengthValidation(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for wrong-length Mat3")
		}
	}()
	Mat3([]float32{1, 2, 3})
}

func TestValueKind(t *testing.T) {
	if Scalar(1).Kind() != KindScalar {
		t.Error("Scalar should report KindScalar")
	}
	if Mat4(make([]float32, 16)).Kind() != KindMat4 {
		t.Error("Mat4 should report KindMat4")
	}
}
