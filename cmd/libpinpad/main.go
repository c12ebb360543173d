// Command libpinpad builds the pinpad JNI library for Android.
//
// Build it as a shared object and load it from the app:
//
//	GOOS=android GOARCH=arm64 CGO_ENABLED=1 \
//	    go build -buildmode=c-shared -o libpinpad.so ./cmd/libpinpad
//
// The exported symbols implement the native methods of
// gg.interstellar.wallet.RustWrapper:
//
//	long newCircuitsPackage(byte[] message, byte[] pinpad)
//	long initSurface(Surface surface, float[] messageRects, float[] pinpadRects,
//	                 int cols, int rows, String messageTextColor,
//	                 String circleTextColor, String circleColor,
//	                 String backgroundColor, long circuitsPackage)
//	void render(long handle)
//	void cleanup(long handle)
package main

// main is required by -buildmode=c-shared and never runs.
func main() {}
